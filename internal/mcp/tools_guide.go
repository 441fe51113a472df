// tools_guide.go implements the MCP tool for reading the embedded guide,
// so a client can learn the tools without a store.

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jpl-au/kbase/guide"
	"github.com/jpl-au/kbase/internal/log"
)

// readGuide handles kbase_guide tool calls.
func (h *handlers) readGuide(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := getString(req, "topic", "")

	content, err := guide.Get(topic)

	log.Event("mcp:guide", "read").User(h.user).Detail("topic", topic).Write(err)

	if err != nil {
		topics, listErr := guide.List()
		if listErr != nil {
			return nil, fmt.Errorf("listing guides: %w", listErr)
		}
		return mcp.NewToolResultError(fmt.Sprintf("guide %q not found, available: %s", topic, strings.Join(topics, ", "))), nil
	}
	return mcp.NewToolResultText(content), nil
}
