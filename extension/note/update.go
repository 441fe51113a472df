// update.go implements the "kbase update" command for changing note fields.
//
// Design: Only flags that were given are applied, so "kbase update ID
// --favorite=false" unstars a note without touching anything else. --tag
// replaces the whole tag array; use "kbase tag attach" to add registry links.

package note

import (
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newUpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: "Update note fields",
		Long: `Update a note's title, body, tags, folder, favourite or archived state.

  kbase update 1f2e... --title "Renamed"
  kbase update 1f2e... --tag work --tag urgent     # replace tags
  kbase update 1f2e... --folder 5c1e...
  kbase update 1f2e... --clear                     # move out of its folder
  kbase update 1f2e... --archived
  kbase update 1f2e... --body - < body.md`,
		Args: cobra.ExactArgs(1),
		RunE: e.runUpdate,
	}
	c.Flags().String(extension.FlagTitle, "", "New title")
	c.Flags().StringP(extension.FlagBody, "b", "", "New body (- reads stdin)")
	c.Flags().StringArrayP(extension.FlagTag, "t", nil, "Replace tags (repeatable)")
	c.Flags().StringP(extension.FlagFolder, "f", "", "Move into folder id")
	c.Flags().Bool(extension.FlagClear, false, "Move out of any folder")
	c.Flags().Bool(extension.FlagFavorite, false, "Set favourite")
	c.Flags().Bool(extension.FlagArchived, false, "Set archived")
	c.MarkFlagsMutuallyExclusive(extension.FlagFolder, extension.FlagClear)
	return c
}

func (e *Extension) runUpdate(c *cobra.Command, args []string) error {
	id := args[0]
	p, err := notePatch(c)
	if err != nil {
		return cmd.PrintJSONError(err)
	}

	n, err := e.svc.UpdateNote(c.Context(), e.user, id, p)

	log.Event("note:update", "update").User(e.user).Target(id).Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("update %q: %w", id, err))
	}
	if !cmd.JSON() {
		fmt.Fprintf(cmd.Out(), "Updated %s\n", n.ID)
	}
	return cmd.PrintJSON(n.ToJSON(false))
}

// notePatch builds a patch from the flags that were set.
func notePatch(c *cobra.Command) (store.NotePatch, error) {
	var p store.NotePatch
	fl := c.Flags()

	if fl.Changed(extension.FlagTitle) {
		v, _ := fl.GetString(extension.FlagTitle)
		p.Title = &v
	}
	if fl.Changed(extension.FlagBody) {
		v, _ := fl.GetString(extension.FlagBody)
		if v == "-" {
			data, err := io.ReadAll(c.InOrStdin())
			if err != nil {
				return p, fmt.Errorf("read stdin: %w", err)
			}
			v = string(data)
		}
		p.Body = &v
	}
	if fl.Changed(extension.FlagTag) {
		v, _ := fl.GetStringArray(extension.FlagTag)
		p.Tags = &v
	}
	if fl.Changed(extension.FlagFolder) {
		v, _ := fl.GetString(extension.FlagFolder)
		p.FolderID = &v
	}
	p.ClearFolder, _ = fl.GetBool(extension.FlagClear)
	if fl.Changed(extension.FlagFavorite) {
		v, _ := fl.GetBool(extension.FlagFavorite)
		p.Favorite = &v
	}
	if fl.Changed(extension.FlagArchived) {
		v, _ := fl.GetBool(extension.FlagArchived)
		p.Archived = &v
	}

	if p == (store.NotePatch{}) {
		return p, errors.New("nothing to update (see kbase update --help)")
	}
	return p, nil
}
