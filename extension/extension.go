// Package extension provides the plugin architecture for kbase. Extensions
// encapsulate related functionality (commands, MCP tools) and register at
// init time, so features are added without touching core code.
//
// These are compiled-in Go extensions. They are unrelated to the declarative
// user plugins managed by `kbase plugin`, which are only recorded manifests.
package extension

import "github.com/spf13/cobra"

// Extension defines the contract for kbase extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions can perform setup (migrations, etc).
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless is an optional interface for extensions with commands that
// don't require a store. Commands named by NoStoreCommands() do not trigger
// store initialisation in PersistentPreRunE.
//
// Use cases:
//  1. Bootstrap commands (like init) that run before the store exists
//  2. Commands that manage their own service lifecycle (serve, api)
//  3. Utility commands that don't need the database (version, config)
type Storeless interface {
	NoStoreCommands() []string
}
