package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/store"
)

// fakeSource is an in-memory Source. hits is returned verbatim so tests can
// simulate a misbehaving index.
type fakeSource struct {
	fakeLookup
	hits      []store.Hit
	searchErr error
}

func (f *fakeSource) Search(ctx context.Context, userID, query string, limit int) ([]store.Hit, error) {
	return f.hits, f.searchErr
}

type failingHistory struct {
	mu    sync.Mutex
	calls int
}

func (h *failingHistory) AppendHistory(ctx context.Context, e store.HistoryEntry) error {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return errors.New("history offline")
}

type recordingHistory struct {
	mu      sync.Mutex
	entries []store.HistoryEntry
}

func (h *recordingHistory) AppendHistory(ctx context.Context, e store.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

func TestPipeline_OwnershipSafety(t *testing.T) {
	src := &fakeSource{hits: []store.Hit{
		hit("mine", "alice", -1, 1),
		hit("leak", "bob", -5, 1),
	}}
	resp, err := search.New(src, nil).Search(context.Background(), search.Request{UserID: "alice", Query: "q"})
	require.NoError(t, err)
	for _, n := range resp.Results {
		assert.Equal(t, "alice", n.UserID)
	}
	assert.Equal(t, []string{"mine"}, ids(resp.Results))
}

func TestPipeline_FavoriteScenario(t *testing.T) {
	src := &fakeSource{
		hits: []store.Hit{
			hit("A", "alice", -1, 3),
			hit("B", "alice", -1, 2),
			hit("C", "alice", -1, 1),
		},
		fakeLookup: fakeLookup{fav: []string{"B"}},
	}
	resp, err := search.New(src, nil).Search(context.Background(), search.Request{
		UserID: "alice",
		Query:  "note",
		Filter: search.Filter{Favorite: ptr(true)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, ids(resp.Results))
	assert.Equal(t, 1, resp.Total)
}

func TestPipeline_InvalidQuery(t *testing.T) {
	h := &recordingHistory{}
	rec := search.NewRecorder(h, search.RecorderOptions{})
	resp, err := search.New(&fakeSource{}, rec).Search(context.Background(), search.Request{UserID: "alice", Query: "  "})
	assert.ErrorIs(t, err, search.ErrInvalidQuery)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)

	rec.Wait()
	assert.Empty(t, h.entries, "an empty query is not a search")
}

func TestPipeline_Unavailable(t *testing.T) {
	src := &fakeSource{searchErr: errors.New("database is locked")}
	_, err := search.New(src, nil).Search(context.Background(), search.Request{UserID: "alice", Query: "q"})
	assert.ErrorIs(t, err, search.ErrUnavailable)

	src = &fakeSource{fakeLookup: fakeLookup{err: context.DeadlineExceeded}}
	_, err = search.New(src, nil).Search(context.Background(), search.Request{
		UserID: "alice", Query: "q", Filter: search.Filter{FolderID: ptr("F")},
	})
	assert.ErrorIs(t, err, search.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPipeline_HistoryFailureDoesNotAffectResult(t *testing.T) {
	src := &fakeSource{hits: []store.Hit{hit("a", "alice", -2, 1), hit("b", "alice", -1, 1)}}

	baseline, err := search.New(src, nil).Search(context.Background(), search.Request{UserID: "alice", Query: "q"})
	require.NoError(t, err)

	h := &failingHistory{}
	rec := search.NewRecorder(h, search.RecorderOptions{Timeout: time.Second})
	resp, err := search.New(src, rec).Search(context.Background(), search.Request{UserID: "alice", Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, ids(baseline.Results), ids(resp.Results))

	rec.Wait()
	assert.Equal(t, 1, h.calls)
}

func TestPipeline_RecordsTotalBeforeLimit(t *testing.T) {
	src := &fakeSource{hits: []store.Hit{
		hit("a", "alice", -3, 1),
		hit("b", "alice", -2, 1),
		hit("c", "alice", -1, 1),
	}}
	h := &recordingHistory{}
	rec := search.NewRecorder(h, search.RecorderOptions{})

	resp, err := search.New(src, rec).Search(context.Background(), search.Request{UserID: "alice", Query: " q ", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(resp.Results))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "q", resp.Query)

	rec.Wait()
	require.Len(t, h.entries, 1)
	assert.Equal(t, "q", h.entries[0].Query)
	assert.Equal(t, 3, h.entries[0].ResultsCount)
}
