// tools_folders.go implements MCP tools for folders.
//
// Design: A cyclic folder graph is not a tool error. kbase_folders returns
// the repaired tree with a warning field naming what was severed.

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/kbase/internal/folder"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
)

type treeResult struct {
	folder.Tree
	Warning string `json:"warning,omitempty"`
}

// folderTree handles kbase_folders tool calls.
func (h *handlers) folderTree(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	t, err := h.svc.FolderTree(ctx, h.user)

	log.Event("mcp:folders", "list").User(h.user).Detail("count", t.Count()).Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	r := treeResult{Tree: t}
	if w := t.Err(); w != nil {
		r.Warning = w.Error()
	}
	return jsonResult(r)
}

// createFolder handles kbase_folder_create tool calls.
func (h *handlers) createFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil //nolint:nilerr
	}

	f, err := h.svc.CreateFolder(ctx, h.user, store.FolderInput{
		Name:        name,
		ParentID:    optString(req, "parent_id"),
		Color:       getString(req, "color", ""),
		Description: getString(req, "description", ""),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(f.ToJSON())
}

// updateFolder handles kbase_folder_update tool calls.
func (h *handlers) updateFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	f, err := h.svc.UpdateFolder(ctx, h.user, id, store.FolderPatch{
		Name:        optString(req, "name"),
		Color:       optString(req, "color"),
		Description: optString(req, "description"),
		ParentID:    optString(req, "parent_id"),
		ClearParent: getBool(req, "clear_parent", false),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(f.ToJSON())
}

// deleteFolder handles kbase_folder_delete tool calls.
func (h *handlers) deleteFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	if err := h.svc.DeleteFolder(ctx, h.user, id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted folder %s", id)), nil
}
