// serve.go implements the "kbase serve" command for MCP server operation.
//
// Separated from extension.go because serve has unique lifecycle requirements.
// Unlike other commands that run and exit, serve blocks indefinitely handling
// MCP requests over stdio.
//
// Design: Serve is a NoStoreCommand - it manages its own service lifecycle
// instead of using the shared service from root.go. The server starts even
// when no repository exists yet so that a client can call kbase_init.

package core

import (
	"os"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

Every tool acts as the configured user (--user, KBASE_USER or user.id).

Use --db to serve a specific database:
  kbase serve --db work    # serve kbase-work.db`,
		RunE: runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	// The MCP server discovers its database itself; --dir becomes the
	// discovery root.
	if d := cmd.Dir(); d != "" {
		if err := os.Setenv(config.EnvDir, d); err != nil {
			return err
		}
	}
	return mcp.Serve(cmd.DB(), cmd.User())
}
