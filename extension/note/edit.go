// edit.go implements the "kbase edit" command for partial body edits.
//
// Separated from update.go because edit works on text inside the body
// (search/replace or a line range) rather than replacing whole fields.

package note

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/edit"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newEditCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "edit <id> [old] [new]",
		Short: "Partial edit via search/replace or line range",
		Long: `Edit a note body by replacing text or lines.

Search/replace mode (positional or flags):
  kbase edit 1f2e... "old text" "new text"
  kbase edit 1f2e... --old "old text" --new "new text"
  kbase edit 1f2e... -i "OLD TEXT" "new text"  # case-insensitive

Line range mode (replaces lines with stdin):
  kbase edit 1f2e... -l 5:10 <<< "replacement content"

Use --diff to print what changed.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: e.runEdit,
	}
	c.Flags().String(extension.FlagOld, "", "Text to find")
	c.Flags().String(extension.FlagNew, "", "Text to replace with")
	c.Flags().StringP(extension.FlagLines, "l", "", "Line range (e.g., 5:10)")
	c.Flags().BoolP(extension.FlagIgnoreCase, "i", false, "Case-insensitive matching")
	c.Flags().BoolP(extension.FlagDiff, "d", false, "Show a diff of the change")
	return c
}

func (e *Extension) runEdit(c *cobra.Command, args []string) error {
	id := args[0]
	opts, err := editOptions(c, args)
	if err != nil {
		return cmd.PrintJSONError(err)
	}
	showDiff, _ := c.Flags().GetBool(extension.FlagDiff)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}
	colour := !cmd.JSON() && term.IsTerminal(int(os.Stdout.Fd()))

	result, err := edit.Run(c.Context(), w, e.svc, e.user, id, opts, showDiff || cmd.JSON(), colour)

	log.Event("note:edit", "edit").
		User(e.user).
		Target(id).
		Detail("lines", opts.Lines).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("edit %q: %w", id, err))
	}
	return cmd.PrintJSON(result)
}

func editOptions(c *cobra.Command, args []string) (edit.Options, error) {
	var opts edit.Options
	opts.Lines, _ = c.Flags().GetString(extension.FlagLines)
	opts.CaseInsensitive, _ = c.Flags().GetBool(extension.FlagIgnoreCase)

	if opts.Lines != "" {
		replacement, err := io.ReadAll(c.InOrStdin())
		if err != nil {
			return opts, fmt.Errorf("read stdin: %w", err)
		}
		opts.New = string(replacement)
		return opts, nil
	}

	opts.Old, _ = c.Flags().GetString(extension.FlagOld)
	opts.New, _ = c.Flags().GetString(extension.FlagNew)
	if len(args) >= 3 {
		opts.Old, opts.New = args[1], args[2]
	}
	if opts.Old == "" {
		return opts, errors.New("old text is required (use positional args or --old flag)")
	}
	return opts, nil
}
