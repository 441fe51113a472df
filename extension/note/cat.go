// cat.go implements the "kbase cat" command for reading note bodies.
//
// Separated from note.go to isolate output formatting logic including
// line numbering, line range extraction, and terminal rendering with glamour.
//
// Design: Terminal output gets glamour markdown rendering; pipe/redirect gets
// raw markdown. The -l flag uses colon syntax (10:20) matching sed/awk
// conventions.

package note

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/cat"
	"github.com/jpl-au/kbase/internal/edit"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newCatCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "cat <id>",
		Short: "Read a note",
		Long:  `Output the body of a note to stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE:  e.runCat,
	}
	c.Flags().BoolP(extension.FlagNumber, "n", false, "Number all output lines")
	c.Flags().StringP(extension.FlagLines, "l", "", "Line range (e.g., 10:20, 5:, :15)")
	c.Flags().Bool(extension.FlagHeading, false, "Print the title as a heading first")
	c.Flags().Bool(extension.FlagRaw, false, "Output raw markdown without rendering")
	return c
}

func (e *Extension) runCat(c *cobra.Command, args []string) error {
	ctx := c.Context()
	id := args[0]
	raw, _ := c.Flags().GetBool(extension.FlagRaw)
	lineRange, _ := c.Flags().GetString(extension.FlagLines)

	opts := cat.Options{}
	opts.LineNumbers, _ = c.Flags().GetBool(extension.FlagNumber)
	opts.Title, _ = c.Flags().GetBool(extension.FlagHeading)
	if lineRange != "" {
		start, end, err := edit.ParseLineRange(lineRange)
		if err != nil {
			return cmd.PrintJSONError(err)
		}
		opts.StartLine, opts.EndLine = start, end
	}

	var err error
	defer func() {
		log.Event("note:cat", "read").User(e.user).Target(id).Write(err)
	}()

	if cmd.JSON() {
		var buf bytes.Buffer
		var result cat.Result
		result, err = cat.Run(ctx, &buf, e.svc, e.user, id, opts)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", id, err))
		}
		j := result.Note.ToJSON(true)
		j.Body = buf.String()
		return cmd.PrintJSON(j)
	}

	// Line numbers are not markdown; only plain bodies are rendered.
	if !raw && !opts.LineNumbers && term.IsTerminal(int(os.Stdout.Fd())) {
		var buf bytes.Buffer
		if _, err = cat.Run(ctx, &buf, e.svc, e.user, id, opts); err != nil {
			return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", id, err))
		}
		rendered, renderErr := glamour.Render(buf.String(), "dark")
		if renderErr == nil {
			fmt.Fprint(cmd.Out(), rendered)
			return nil
		}
		_, _ = io.Copy(cmd.Out(), &buf)
		return nil
	}

	if _, err = cat.Run(ctx, cmd.Out(), e.svc, e.user, id, opts); err != nil {
		return cmd.PrintJSONError(fmt.Errorf("cat %q: %w", id, err))
	}
	return nil
}
