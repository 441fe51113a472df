// Package note provides the note extension for core CRUD operations.
// Registers commands: add, cat, ls, update, edit, rm, ai.
//
// Each command file is separated to isolate its specific flag handling and
// output formatting logic. Notes are addressed by id; every command acts as
// the user resolved by the root command.

package note

import (
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the note extension.
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

// Name returns "note" - this extension handles note CRUD operations.
func (e *Extension) Name() string { return "note" }

// Init connects to the shared service for note operations.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Service()
	e.cfg = ctx.Config()
	e.user = ctx.User()
	return nil
}

// Commands returns the note manipulation commands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newAddCmd(),
		e.newCatCmd(),
		e.newLsCmd(),
		e.newUpdateCmd(),
		e.newEditCmd(),
		e.newRmCmd(),
		e.newAICmd(),
	}
}

// MCPTools returns nil - note MCP tools are provided by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}
