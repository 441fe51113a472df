// rm.go implements the "kbase rm" command for deleting notes.
//
// Design: Deletion is permanent. Several ids are removed in order and the
// command stops at the first failure, reporting what was already deleted.

package note

import (
	"fmt"
	"io"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/rm"
	"github.com/spf13/cobra"
)

func (e *Extension) newRmCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete notes",
		Long:  `Permanently delete one or more notes and their tag links.`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  e.runRm,
	}
	c.Flags().Bool(extension.FlagDryRun, false, "Show what would be deleted")
	return c
}

func (e *Extension) runRm(c *cobra.Command, args []string) error {
	dryRun, _ := c.Flags().GetBool(extension.FlagDryRun)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := rm.Run(c.Context(), w, e.svc, e.user, args, rm.Options{DryRun: dryRun})

	log.Event("note:rm", "delete").
		User(e.user).
		Detail("requested", len(args)).
		Detail("deleted", len(result.Deleted)).
		Detail("dry_run", dryRun).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("rm: %w", err))
	}
	return cmd.PrintJSON(result)
}
