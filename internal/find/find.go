// Package find runs a note search and prints the ranked results.
//
// This wraps service.Search with output formatting. A blank query is not an
// error for the caller: it prints nothing and returns an empty result, the
// same as a query with no matches.
package find

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/kbase/internal/format"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
)

// Options configures output.
type Options struct {
	IDsOnly bool // print only note ids
}

// Result is the JSON shape of a search.
type Result struct {
	Results []store.NoteJSON `json:"results"`
	Total   int              `json:"total"`
	Query   string           `json:"query"`
}

// Run searches and writes output to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, req search.Request, opts Options) (Result, error) {
	resp, err := svc.Search(ctx, req)
	if err != nil && !errors.Is(err, search.ErrInvalidQuery) {
		return Result{Results: []store.NoteJSON{}, Query: resp.Query}, err
	}

	r := Result{Results: make([]store.NoteJSON, 0, len(resp.Results)), Total: resp.Total, Query: resp.Query}
	for i := range resp.Results {
		r.Results = append(r.Results, resp.Results[i].ToJSON(false))
	}

	if opts.IDsOnly {
		for _, n := range resp.Results {
			fmt.Fprintln(w, n.ID)
		}
		return r, nil
	}
	return r, format.SearchResults(w, resp.Results, resp.Query)
}
