// tools_search.go implements MCP tools for search and search history.
//
// Design: A blank query is not a tool error. It returns an empty result,
// the same as the CLI's find.

package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/kbase/internal/duration"
	"github.com/jpl-au/kbase/internal/find"
	"github.com/jpl-au/kbase/internal/history"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/search"
)

// searchNotes handles kbase_search tool calls.
func (h *handlers) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	query := getString(req, "query", "")
	sr := search.Request{
		UserID: h.user,
		Query:  query,
		Filter: search.Filter{
			FolderID: optString(req, "folder_id"),
			Tags:     getStrings(req, "tags"),
			Favorite: optBool(req, "favorite"),
		},
		Limit: getInt(req, "limit", 0),
	}

	r, err := find.Run(ctx, io.Discard, h.svc, sr, find.Options{})

	log.Event("mcp:search", "search").User(h.user).Detail("query", query).Detail("count", r.Total).Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(r)
}

// searchHistory handles kbase_history tool calls.
func (h *handlers) searchHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	opts := history.Options{Limit: getInt(req, "limit", 0)}
	if s := getString(req, "since", ""); s != "" {
		d, err := duration.Parse(s)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Since = d
	}

	r, err := history.Run(ctx, io.Discard, h.svc, h.user, opts)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(r)
}
