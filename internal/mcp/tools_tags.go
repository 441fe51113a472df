// tools_tags.go implements MCP tools for the tag registry.
//
// Separated from tools_notes.go because tags have an independent lifecycle.
// A note's tag array is edited with kbase_update; these tools manage the
// registry and its explicit memberships.

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/kbase/internal/log"
)

// listTags handles kbase_tags tool calls.
func (h *handlers) listTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	views, err := h.svc.Tags(ctx, h.user)

	log.Event("mcp:tags", "list").User(h.user).Detail("count", len(views)).Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(views)
}

// createTag handles kbase_tag_create tool calls.
func (h *handlers) createTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}

	t, err := h.svc.CreateTag(ctx, h.user, name, getString(req, "color", ""))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(map[string]any{"id": t.ID, "name": t.Name, "color": t.Color})
}

// deleteTag handles kbase_tag_delete tool calls.
func (h *handlers) deleteTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}

	if err := h.svc.DeleteTag(ctx, h.user, name); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted tag %q", name)), nil
}

// attachTag handles kbase_tag_attach tool calls.
func (h *handlers) attachTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	name, id, res := nameAndID(req)
	if res != nil {
		return res, nil
	}

	if err := h.svc.AttachTag(ctx, h.user, name, id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("attached tag %q to %s", name, id)), nil
}

// detachTag handles kbase_tag_detach tool calls.
func (h *handlers) detachTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	name, id, res := nameAndID(req)
	if res != nil {
		return res, nil
	}

	if err := h.svc.DetachTag(ctx, h.user, name, id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("detached tag %q from %s", name, id)), nil
}

// formaliseTags handles kbase_tag_formalise tool calls.
func (h *handlers) formaliseTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	created, err := h.svc.FormaliseTags(ctx, h.user)
	if err != nil {
		return errorResult(err), nil
	}
	names := make([]string, len(created))
	for i, t := range created {
		names[i] = t.Name
	}
	return jsonResult(map[string]any{"registered": names})
}

func nameAndID(req mcp.CallToolRequest) (name, id string, res *mcp.CallToolResult) {
	name, err := req.RequireString("name")
	if err != nil {
		return "", "", mcp.NewToolResultError("name is required")
	}
	id, err = req.RequireString("id")
	if err != nil {
		return "", "", mcp.NewToolResultError("id is required")
	}
	return name, id, nil
}
