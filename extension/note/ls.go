// ls.go implements the "kbase ls" command for listing notes.
//
// Design: Ls mimics Unix ls. -l shows tags, folder and timestamps. The
// --favorite flag is tri-state: absent lists everything, --favorite lists
// favourites and --favorite=false lists the rest.

package note

import (
	"fmt"
	"io"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/ls"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/spf13/cobra"
)

func (e *Extension) newLsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ls",
		Short: "List notes",
		Long:  `List notes, most recently updated first, optionally filtered.`,
		Args:  cobra.NoArgs,
		RunE:  e.runLs,
	}
	c.Flags().BoolP(extension.FlagAll, "A", false, "Include archived notes")
	c.Flags().Bool(extension.FlagArchived, false, "Show only archived notes")
	c.Flags().BoolP(extension.FlagLong, "l", false, "Long format with metadata")
	c.Flags().StringP(extension.FlagTag, "t", "", "Filter by tag")
	c.Flags().StringP(extension.FlagFolder, "f", "", "Filter by folder id")
	c.Flags().Bool(extension.FlagFavorite, false, "Filter by favourite status")
	c.Flags().StringP(extension.FlagSort, "s", "", "Sort by: updated, title")
	c.Flags().BoolP(extension.FlagReverse, "r", false, "Reverse sort order")
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Maximum notes (default: search.limit)")
	c.Flags().Int(extension.FlagOffset, 0, "Skip this many notes")
	c.MarkFlagsMutuallyExclusive(extension.FlagAll, extension.FlagArchived)
	return c
}

func (e *Extension) runLs(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	opts := ls.Options{}
	opts.Long, _ = c.Flags().GetBool(extension.FlagLong)
	opts.Reverse, _ = c.Flags().GetBool(extension.FlagReverse)
	opts.Tag, _ = c.Flags().GetString(extension.FlagTag)
	opts.Limit, _ = c.Flags().GetInt(extension.FlagLimit)
	opts.Offset, _ = c.Flags().GetInt(extension.FlagOffset)

	if all, _ := c.Flags().GetBool(extension.FlagAll); all {
		opts.Archived = store.ArchivedAll
	}
	if only, _ := c.Flags().GetBool(extension.FlagArchived); only {
		opts.Archived = store.ArchivedOnly
	}
	if f, _ := c.Flags().GetString(extension.FlagFolder); f != "" {
		opts.FolderID = &f
	}
	if c.Flags().Changed(extension.FlagFavorite) {
		fav, _ := c.Flags().GetBool(extension.FlagFavorite)
		opts.Favorite = &fav
	}

	switch sortBy, _ := c.Flags().GetString(extension.FlagSort); sortBy {
	case "", "updated":
		opts.Sort = ls.SortUpdated
	case "title":
		opts.Sort = ls.SortTitle
	default:
		return cmd.PrintJSONError(fmt.Errorf("invalid sort field %q: must be 'updated' or 'title'", sortBy))
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := ls.Run(ctx, w, e.svc, e.user, opts)

	log.Event("note:ls", "list").
		User(e.user).
		Detail("tag", opts.Tag).
		Detail("count", len(result.Notes)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("ls: %w", err))
	}
	return cmd.PrintJSON(result.ToJSON())
}
