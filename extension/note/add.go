// add.go implements the "kbase add" command for creating notes.
//
// Design: The body comes from the second argument, --body, or piped stdin,
// in that order. An interactive terminal on stdin is never read, so
// "kbase add Title" creates an empty note instead of blocking.

package note

import (
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (e *Extension) newAddCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "add <title> [body]",
		Short: "Create a note",
		Long: `Create a note. The body comes from the argument, --body, or stdin.

  kbase add "Standup" "Talked about the release"
  kbase add "Meeting notes" --tag work --tag q3 < notes.md
  kbase add "Ideas" --body - --folder 5c1e...`,
		Args: cobra.RangeArgs(1, 2),
		RunE: e.runAdd,
	}
	c.Flags().StringP(extension.FlagBody, "b", "", "Note body (- reads stdin)")
	c.Flags().StringArrayP(extension.FlagTag, "t", nil, "Tag (repeatable)")
	c.Flags().StringP(extension.FlagFolder, "f", "", "Folder id")
	c.Flags().Bool(extension.FlagFavorite, false, "Mark as favourite")
	return c
}

func (e *Extension) runAdd(c *cobra.Command, args []string) error {
	body, err := readBody(c, args)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	in := store.NoteInput{Title: args[0], Body: body}
	in.Tags, _ = c.Flags().GetStringArray(extension.FlagTag)
	in.Favorite, _ = c.Flags().GetBool(extension.FlagFavorite)
	if f, _ := c.Flags().GetString(extension.FlagFolder); f != "" {
		in.FolderID = &f
	}

	n, err := e.svc.CreateNote(c.Context(), e.user, in)

	b := log.Event("note:add", "create").User(e.user)
	if n != nil {
		b = b.Target(n.ID)
	}
	b.Detail("tags", len(in.Tags)).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("add %q: %w", args[0], err))
	}

	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Created %s\n", n.ID)
	}
	return cmd.PrintJSON(n.ToJSON(true))
}

// readBody resolves the note body for add.
func readBody(c *cobra.Command, args []string) (string, error) {
	if len(args) >= 2 {
		return args[1], nil
	}
	body, _ := c.Flags().GetString(extension.FlagBody)
	if body != "-" && (body != "" || term.IsTerminal(int(os.Stdin.Fd()))) {
		return body, nil
	}
	data, err := io.ReadAll(c.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
