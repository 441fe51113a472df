// tools_settings.go implements MCP tools for per-user settings: privacy,
// AI assistance and installed plugins.

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/log"
)

// privacy handles kbase_privacy tool calls. With no flags it reports the
// current settings; otherwise the given flags are changed and the rest kept.
func (h *handlers) privacy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	p, err := h.svc.Privacy(ctx, h.user)
	if err != nil {
		return errorResult(err), nil
	}

	changed := false
	for name, field := range map[string]*bool{
		"ai_features_enabled":  &p.AIFeatures,
		"data_sharing_enabled": &p.DataSharing,
		"analytics_enabled":    &p.Analytics,
		"encryption_enabled":   &p.Encryption,
	} {
		if v := optBool(req, name); v != nil {
			*field = *v
			changed = true
		}
	}
	if changed {
		if err := h.svc.SetPrivacy(ctx, h.user, p); err != nil {
			return errorResult(err), nil
		}
	}
	return jsonResult(p)
}

// assist handles kbase_assist tool calls.
func (h *handlers) assist(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	action, err := ai.ParseAction(getString(req, "action", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil //nolint:nilerr
	}

	out, err := h.svc.Assist(ctx, h.user, action, id)

	log.Event("mcp:assist", string(action)).User(h.user).Target(id).Write(err)

	if err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(out), nil
}

// listPlugins handles kbase_plugins tool calls.
func (h *handlers) listPlugins(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	plugins, err := h.svc.Plugins(ctx, h.user)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(plugins)
}
