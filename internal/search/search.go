// Package search implements the note search pipeline: a full-text query,
// deterministic ranking, structured filter intersection and asynchronous
// history recording.
//
// The pieces are exported individually (Rank, Resolve, Apply, Recorder) so
// they can be tested without a database; Pipeline wires them together.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpl-au/kbase/internal/store"
)

// Source is the store surface the pipeline reads from.
type Source interface {
	Lookup
	Search(ctx context.Context, userID, query string, limit int) ([]store.Hit, error)
}

// Request is one search.
type Request struct {
	UserID string
	Query  string
	Filter Filter
	Limit  int // maximum results returned, 0 for all
}

// Response is the outcome of a search. Total counts every match that passed
// the filters, before Limit was applied.
type Response struct {
	Results []store.Note `json:"-"`
	Total   int          `json:"total"`
	Query   string       `json:"query"`
}

// Pipeline runs searches against a Source.
type Pipeline struct {
	src Source
	rec *Recorder
}

// New creates a pipeline. rec may be nil to disable history.
func New(src Source, rec *Recorder) *Pipeline {
	return &Pipeline{src: src, rec: rec}
}

// Recorder returns the pipeline's history recorder (possibly nil).
func (p *Pipeline) Recorder() *Recorder {
	return p.rec
}

// Search runs req. An empty query returns ErrInvalidQuery with an empty
// response and records nothing. Store failures are wrapped in
// ErrUnavailable. A successful search is recorded in history without
// waiting for the write.
func (p *Pipeline) Search(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	defer func() { SearchDuration.Observe(time.Since(start).Seconds()) }()

	query := strings.TrimSpace(req.Query)
	resp := Response{Results: []store.Note{}, Query: query}
	if query == "" {
		SearchesTotal.WithLabelValues("invalid").Inc()
		return resp, ErrInvalidQuery
	}

	var (
		hits []store.Hit
		m    Membership
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hits, err = p.src.Search(gctx, req.UserID, query, 0)
		return err
	})
	g.Go(func() error {
		var err error
		m, err = Resolve(gctx, p.src, req.UserID, req.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		SearchesTotal.WithLabelValues("unavailable").Inc()
		return resp, unavailable(err)
	}

	ranked, err := Rank(req.UserID, query, hits)
	if err != nil {
		return resp, err
	}
	results := Apply(ranked, req.Filter, m)

	resp.Total = len(results)
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	resp.Results = results

	SearchesTotal.WithLabelValues("ok").Inc()
	p.rec.Record(ctx, req.UserID, query, resp.Total)
	return resp, nil
}

func unavailable(err error) error {
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
