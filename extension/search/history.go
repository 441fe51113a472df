// history.go implements the "kbase history" command for past searches.

package search

import (
	"fmt"
	"io"

	"github.com/jpl-au/kbase/cmd"
	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/duration"
	"github.com/jpl-au/kbase/internal/history"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/spf13/cobra"
)

func (e *Extension) newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Long: `Show your recent searches, newest first, with their result counts.

  kbase history
  kbase history --since 7d -n 20`,
		Args: cobra.NoArgs,
		RunE: e.runHistory,
	}
	c.Flags().IntP(extension.FlagLimit, "n", 0, "Maximum entries (default: search.limit)")
	c.Flags().String(extension.FlagSince, "", "Only searches newer than this (e.g. 12h, 7d, 4w)")
	return c
}

func (e *Extension) runHistory(c *cobra.Command, _ []string) error {
	var opts history.Options
	opts.Limit, _ = c.Flags().GetInt(extension.FlagLimit)
	if s, _ := c.Flags().GetString(extension.FlagSince); s != "" {
		d, err := duration.Parse(s)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("history: %w", err))
		}
		opts.Since = d
	}

	w := cmd.Out()
	if cmd.JSON() {
		w = io.Discard
	}

	result, err := history.Run(c.Context(), w, e.svc, e.user, opts)

	log.Event("search:history", "list").
		User(e.user).
		Detail("count", len(result.Entries)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("history: %w", err))
	}
	return cmd.PrintJSON(result)
}
