// init.go implements the "kbase init" command for repository initialisation.
//
// Separated from extension.go to isolate init-specific logic. Init is special
// because it runs before a store exists and creates the initial database.
//
// Design: Init does NOT create config - that's managed separately via
// "kbase config". This follows git's model where init creates repository
// structure and config is separate. The --local flag controls whether the
// database is committed to git or gitignored.

package core

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Initialise a new kbase store",
		Long: `Creates a .kbase/kbase.db database in the current directory.

Use --db to create additional databases:
  kbase init --db work    # creates .kbase/kbase-work.db

Use --dir to create in a different directory:
  kbase init --dir /path/to/project    # creates /path/to/project/.kbase/kbase.db

Use --local to exclude from git:
  kbase init --db journal --local    # creates kbase-journal.db, not committed

Note: init does not create config. Use "kbase config" to set user.id.`,
		RunE: runInit,
	}
	c.Flags().BoolP(extension.FlagLocal, "l", false, "Mark database as local (gitignored)")
	return c
}

func runInit(c *cobra.Command, _ []string) error {
	local, _ := c.Flags().GetBool(extension.FlagLocal)
	db, dir := cmd.DB(), cmd.Dir()

	// --local edits the current project's .gitignore, which is meaningless
	// for a database created somewhere else.
	if local && dir != "" {
		return cmd.PrintJSONError(errors.New("cannot use --local with --dir: --local modifies the current project's .gitignore, but --dir creates the database elsewhere"))
	}

	err := note.Init(cmd.Force(), db, local, dir)

	log.Event("core:init", "init").
		User(cmd.User()).
		Detail("db", db).
		Detail("dir", dir).
		Detail("local", local).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	loc := filepath.Join(dir, repo.Dir, repo.DBFileName(db))
	if cmd.JSON() {
		return cmd.PrintJSON(map[string]string{"path": loc})
	}
	fmt.Fprintf(cmd.Out(), "Initialised kbase store in %s\n", loc)
	return nil
}
