// Package core provides the core extension for kbase.
// It registers commands: init, config, guide, serve, api, token, version.
package core

import (
	"github.com/jpl-au/kbase/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension = (*Extension)(nil)
	_ extension.Storeless = (*Extension)(nil)
)

// Name returns "core" - this extension provides fundamental kbase commands.
func (e *Extension) Name() string { return "core" }

// Commands returns all core CLI commands for repository and server management.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newGuideCmd(),
		newServeCmd(),
		newAPICmd(),
		newTokenCmd(),
		newVersionCmd(),
	}
}

// MCPTools returns nil - the core tools are registered by internal/mcp.
func (e *Extension) MCPTools() []extension.MCPTool {
	return nil
}

// NoStoreCommands returns commands that manage their own service lifecycle.
// serve, api: long-running servers open the service themselves.
// token: signs a JWT from config, no database needed.
// guide, version: embedded docs and build info.
func (e *Extension) NoStoreCommands() []string {
	return []string{"serve", "api", "token", "guide", "version"}
}
