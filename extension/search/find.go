// find.go implements the "kbase find" command for ranked full-text search.
//
// Separated from search.go to isolate the search flags. Filters narrow the
// full-text matches; they never widen them, and a blank query finds nothing.

package search

import (
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/find"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/spf13/cobra"
)

func (e *Extension) newFindCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "find <query>...",
		Short: "Full-text search across notes",
		Long: `Full-text search across note titles, bodies and tags.

Results are ranked: title matches first, then tag matches, then the most
recently updated. Every search is recorded in your search history.

  kbase find roadmap
  kbase find quarterly plan --tag work --favorite
  kbase find retro --folder 5c1e... -l`,
		Args: cobra.MinimumNArgs(1),
		RunE: e.runFind,
	}
	c.Flags().StringP(extension.FlagFolder, "f", "", "Only notes in this folder id")
	c.Flags().StringArrayP(extension.FlagTag, "t", nil, "Only notes with any of these tags (repeatable)")
	c.Flags().Bool(extension.FlagFavorite, false, "Only favourites (--favorite=false for the rest)")
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Maximum results (default: search.limit)")
	c.Flags().BoolP(extension.FlagIDsOnly, "l", false, "Only output note ids")
	return c
}

func (e *Extension) runFind(c *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	fl := c.Flags()

	req := search.Request{UserID: e.user, Query: query}
	req.Limit, _ = fl.GetInt(extension.FlagLimit)
	req.Filter.Tags, _ = fl.GetStringArray(extension.FlagTag)
	if f, _ := fl.GetString(extension.FlagFolder); f != "" {
		req.Filter.FolderID = &f
	}
	if fl.Changed(extension.FlagFavorite) {
		fav, _ := fl.GetBool(extension.FlagFavorite)
		req.Filter.Favorite = &fav
	}
	idsOnly, _ := fl.GetBool(extension.FlagIDsOnly)

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := find.Run(c.Context(), w, e.svc, req, find.Options{IDsOnly: idsOnly})

	log.Event("search:find", "search").
		User(e.user).
		Detail("query", query).
		Detail("count", result.Total).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("find %q: %w", query, err))
	}
	return cmd.PrintJSON(result)
}
