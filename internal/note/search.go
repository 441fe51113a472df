package note

import (
	"context"

	"github.com/jpl-au/kbase/extension"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/store"
)

// Search runs the search pipeline. A zero Limit uses search.limit.
func (s *Service) Search(ctx context.Context, req search.Request) (search.Response, error) {
	if req.Limit == 0 {
		req.Limit = s.cfg.SearchLimit()
	}
	resp, err := s.pipeline.Search(ctx, req)
	if err != nil {
		return resp, err
	}
	s.fireEvent(extension.SearchEvent{UserID: req.UserID, Query: resp.Query, Total: resp.Total})
	return resp, nil
}

// History returns recent searches. A zero limit uses search.limit.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]store.HistoryEntry, error) {
	if limit == 0 {
		limit = s.cfg.SearchLimit()
	}
	return s.store.ListHistory(ctx, userID, limit)
}
