// tools_util.go provides helper functions for MCP tool parameter extraction
// and result construction.
//
// Design: Optional parameters are extracted permissively (default on a
// missing or mistyped value) so an LLM omitting one never sees a type error.
// Tri-state booleans use optBool, where absence means "leave unchanged".

package mcp

import (
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/kbase/internal/privacy"
	"github.com/jpl-au/kbase/internal/store"
)

func args(req mcp.CallToolRequest) map[string]any {
	m, _ := req.Params.Arguments.(map[string]any)
	return m
}

// getString extracts a string parameter, returning def if it is missing or
// not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// optString returns a pointer to a string parameter, or nil if absent.
func optString(req mcp.CallToolRequest, name string) *string {
	if v, ok := args(req)[name].(string); ok {
		return &v
	}
	return nil
}

// getBool extracts a boolean parameter. A string "true" is not accepted.
func getBool(req mcp.CallToolRequest, name string, def bool) bool {
	if v, ok := args(req)[name].(bool); ok {
		return v
	}
	return def
}

// optBool returns a pointer to a boolean parameter, or nil if absent.
func optBool(req mcp.CallToolRequest, name string) *bool {
	if v, ok := args(req)[name].(bool); ok {
		return &v
	}
	return nil
}

// getInt extracts an integer parameter. JSON numbers decode as float64.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	if v, ok := args(req)[name].(float64); ok {
		return int(v)
	}
	return def
}

// getStrings extracts a string array parameter. Non-string elements are
// skipped. Returns nil when the parameter is absent.
func getStrings(req mcp.CallToolRequest, name string) []string {
	arr, ok := args(req)[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// jsonResult serialises v as indented JSON in a text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult converts a service error into a tool error result. A disabled
// AI gate carries its stable code so clients can offer to enable it.
func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, privacy.ErrAIDisabled) {
		return mcp.NewToolResultError(privacy.Code + ": " + err.Error())
	}
	return mcp.NewToolResultError(err.Error())
}
