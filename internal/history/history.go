// Package history lists a user's recent searches.
package history

import (
	"context"
	"io"
	"time"

	"github.com/jpl-au/kbase/internal/format"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
)

// Options configures a history listing.
type Options struct {
	Limit int           // maximum entries, 0 for the configured default
	Since time.Duration // only entries younger than this, 0 for all
	Now   func() time.Time
}

// Result contains the listed entries, newest first.
type Result struct {
	Entries []store.HistoryEntry `json:"entries"`
}

// Run lists search history and writes it to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, userID string, opts Options) (Result, error) {
	entries, err := svc.History(ctx, userID, opts.Limit)
	if err != nil {
		return Result{Entries: []store.HistoryEntry{}}, err
	}

	if opts.Since > 0 {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		cutoff := now().Add(-opts.Since).Unix()
		kept := entries[:0]
		for _, e := range entries {
			if e.CreatedAt >= cutoff {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	return Result{Entries: entries}, format.History(w, entries)
}
