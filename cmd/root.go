/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Separated from init_extensions.go to isolate cobra setup from extension
// initialisation logic.
//
// Design: PersistentPreRunE handles store initialisation lazily - only
// commands that need the store trigger extension init. This enables bootstrap
// commands (init, config, version, token) to work without a store existing.
// The noStoreCommands map controls which commands skip initialisation.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/spf13/cobra"
)

// ErrNoUser is returned when a store command runs without a user id.
var ErrNoUser = errors.New("no user configured")

var rootCmd = &cobra.Command{
	Use:   "kbase",
	Short: "Personal knowledge base with ranked full-text search",
	Long: `A multi-user notes knowledge base with tags, nested folders, ranked
full-text search, search history, privacy settings and plugins.

Notes are private to the user that owns them. The CLI acts as the user
given by --user, KBASE_USER or user.id in config.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		cmdName := topLevelCmdName(cmd)
		if noStoreCommands[cmdName] {
			return nil
		}

		if User() == "" {
			err := fmt.Errorf("%w (checked --user, %s and user.id in .kbase/config.yaml and ~/.kbase/config.yaml)\n\nRun: kbase config user.id \"alice\"",
				ErrNoUser, config.EnvUser)
			return failEarly(cmd, err)
		}

		if err := initExtensions(); err != nil {
			return failEarly(cmd, fmt.Errorf("initialise extensions: %w", err))
		}
		return nil
	},
}

// failEarly reports a pre-run error, as JSON when requested.
func failEarly(cmd *cobra.Command, err error) error {
	if JSON() {
		_ = PrintJSON(map[string]string{"error": err.Error()})
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
	}
	return err
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
// For "kbase cat 1f2e", returns "cat".
// For "kbase tag attach work 1f2e", returns "tag".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Loads .env, opens audit logging, registers extensions, executes the
// command, and ensures the note service is closed before exit. Exit code 1
// indicates error.
func Execute() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	// Audit logging is best-effort; a broken log must not block the CLI.
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	registerExtensions()
	err := rootCmd.Execute()
	closeService()

	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing and extension access.
func RootCmd() *cobra.Command {
	return rootCmd
}
