// Package ls lists notes with structured filters.
//
// Listing is the exact-match counterpart of find: no text query, just
// folder, tag, favourite and archive filters in recency order. Sorting by
// title is done here so the store keeps a single ordering.
package ls

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/jpl-au/kbase/internal/format"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
)

// SortField selects the listing order.
type SortField string

const (
	SortUpdated SortField = ""      // updated_at desc (store order)
	SortTitle   SortField = "title" // case-insensitive title
)

// Options configures a listing.
type Options struct {
	store.ListOptions
	Long    bool
	Sort    SortField
	Reverse bool
}

// Result contains the listed notes.
type Result struct {
	Notes []store.Note
}

// ToJSON converts the result for JSON output, without bodies.
func (r Result) ToJSON() []store.NoteJSON {
	out := make([]store.NoteJSON, len(r.Notes))
	for i := range r.Notes {
		out[i] = r.Notes[i].ToJSON(false)
	}
	return out
}

// Run lists the user's notes and writes them to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, userID string, opts Options) (Result, error) {
	notes, err := svc.ListNotes(ctx, userID, opts.ListOptions)
	if err != nil {
		return Result{}, err
	}

	if opts.Sort == SortTitle {
		slices.SortStableFunc(notes, func(a, b store.Note) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
	if opts.Reverse {
		slices.Reverse(notes)
	}

	r := Result{Notes: notes}
	if opts.Long {
		return r, format.Long(w, notes)
	}
	return r, format.List(w, notes)
}
