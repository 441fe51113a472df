// Package search provides note discovery and search history.
// Registers commands: find, history.
package search

import (
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the search extension.
type Extension struct {
	svc  service.Service
	cfg  *config.Config
	user string
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "search" - this extension provides note discovery commands.
func (e *Extension) Name() string { return "search" }

// Init connects to the shared service for search operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	e.user = ctx.User()
	return nil
}

// Commands returns find and history.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newFindCmd(),
		e.newHistoryCmd(),
	}
}

// MCPTools returns nil - MCP search tools are in internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
