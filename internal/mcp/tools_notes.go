// tools_notes.go implements MCP tools for note CRUD operations.
//
// Separated from server.go to keep tool definitions apart from handlers.
// These tools mirror the CLI commands (ls, cat, add, update, edit, rm) and
// delegate to the same runner packages, so MCP and CLI behave identically.
// Text output goes to io.Discard; only the structured result is returned.

package mcp

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/kbase/internal/cat"
	"github.com/jpl-au/kbase/internal/edit"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/ls"
	"github.com/jpl-au/kbase/internal/rm"
	"github.com/jpl-au/kbase/internal/store"
)

// parseArchived maps the archived parameter onto store.Archived.
func parseArchived(s string) (store.Archived, error) {
	switch s {
	case "", "exclude":
		return store.ArchivedExclude, nil
	case "only":
		return store.ArchivedOnly, nil
	case "all":
		return store.ArchivedAll, nil
	}
	return 0, fmt.Errorf("invalid archived value %q: must be exclude, only or all", s)
}

// listNotes handles kbase_list tool calls.
func (h *handlers) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	archived, err := parseArchived(getString(req, "archived", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := ls.Options{ListOptions: store.ListOptions{
		FolderID: optString(req, "folder_id"),
		Tag:      getString(req, "tag", ""),
		Favorite: optBool(req, "favorite"),
		Archived: archived,
		Limit:    getInt(req, "limit", 0),
		Offset:   getInt(req, "offset", 0),
	}}

	l := log.Event("mcp:list", "list").User(h.user).Detail("tag", opts.Tag)
	r, err := ls.Run(ctx, io.Discard, h.svc, h.user, opts)
	l.Detail("count", len(r.Notes)).Write(err)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(r.ToJSON())
}

// readNotes handles kbase_read tool calls.
//
// A single id returns a plain object, several return an array. The line
// range applies to every requested note.
func (h *handlers) readNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	ids := getStrings(req, "ids")
	if len(ids) == 0 {
		return mcp.NewToolResultError("ids is required"), nil
	}
	opts := cat.Options{
		StartLine: getInt(req, "start_line", 0),
		EndLine:   getInt(req, "end_line", 0),
	}

	l := log.Event("mcp:read", "read").User(h.user)
	if len(ids) == 1 {
		l.Target(ids[0])
	} else {
		l.Detail("ids", ids)
	}

	notes := make([]store.NoteJSON, 0, len(ids))
	for _, id := range ids {
		var buf bytes.Buffer
		r, err := cat.Run(ctx, &buf, h.svc, h.user, id, opts)
		if err != nil {
			l.Write(err)
			return errorResult(err), nil
		}
		j := r.Note.ToJSON(false)
		j.Body = buf.String()
		notes = append(notes, j)
	}
	l.Detail("count", len(notes)).Write(nil)

	if len(notes) == 1 {
		return jsonResult(notes[0])
	}
	return jsonResult(notes)
}

// createNote handles kbase_create tool calls.
func (h *handlers) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required"), nil //nolint:nilerr
	}

	n, err := h.svc.CreateNote(ctx, h.user, store.NoteInput{
		Title:    title,
		Body:     getString(req, "body", ""),
		Tags:     getStrings(req, "tags"),
		FolderID: optString(req, "folder_id"),
		Favorite: getBool(req, "favorite", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n.ToJSON(false))
}

// updateNote handles kbase_update tool calls.
func (h *handlers) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	p := store.NotePatch{
		Title:       optString(req, "title"),
		Body:        optString(req, "body"),
		FolderID:    optString(req, "folder_id"),
		ClearFolder: getBool(req, "clear_folder", false),
		Favorite:    optBool(req, "favorite"),
		Archived:    optBool(req, "archived"),
	}
	if tags := getStrings(req, "tags"); tags != nil {
		p.Tags = &tags
	}

	n, err := h.svc.UpdateNote(ctx, h.user, id, p)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(n.ToJSON(false))
}

// editNote handles kbase_edit tool calls. The response is the unified diff
// of the body change.
func (h *handlers) editNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}
	opts := edit.Options{
		Old:             getString(req, "old", ""),
		New:             getString(req, "new", ""),
		Lines:           getString(req, "lines", ""),
		CaseInsensitive: getBool(req, "ignore_case", false),
	}

	r, err := edit.Run(ctx, io.Discard, h.svc, h.user, id, opts, true, false)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(r)
}

// deleteNotes handles kbase_delete tool calls.
func (h *handlers) deleteNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	ids := getStrings(req, "ids")
	if len(ids) == 0 {
		return mcp.NewToolResultError("ids is required"), nil
	}

	r, err := rm.Run(ctx, io.Discard, h.svc, h.user, ids, rm.Options{DryRun: getBool(req, "dry_run", false)})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(r)
}
