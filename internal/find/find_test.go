package find_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/find"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
)

// setupService creates a repository in a temp dir and opens a service on it.
func setupService(t *testing.T) service.Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, note.Init(false, "", false, dir), "init repository")

	svc, err := note.Open(filepath.Join(dir, repo.Dir, repo.DBFile), &config.Config{})
	require.NoError(t, err, "open service")
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestRun(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "Roadmap", Body: "ship the roadmap"})
	require.NoError(t, err)
	_, err = svc.CreateNote(ctx, "alice", store.NoteInput{Title: "Groceries"})
	require.NoError(t, err)

	var buf bytes.Buffer
	r, err := find.Run(ctx, &buf, svc, search.Request{UserID: "alice", Query: "roadmap"}, find.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Total)
	require.Len(t, r.Results, 1)
	assert.Equal(t, n.ID, r.Results[0].ID)
	assert.Empty(t, r.Results[0].Body, "search results omit bodies")
	assert.Contains(t, buf.String(), "ship the roadmap")

	buf.Reset()
	_, err = find.Run(ctx, &buf, svc, search.Request{UserID: "alice", Query: "roadmap"}, find.Options{IDsOnly: true})
	require.NoError(t, err)
	assert.Equal(t, n.ID+"\n", buf.String())
}

func TestRun_BlankQueryIsEmpty(t *testing.T) {
	svc := setupService(t)

	var buf bytes.Buffer
	r, err := find.Run(context.Background(), &buf, svc, search.Request{UserID: "alice", Query: "  "}, find.Options{})
	require.NoError(t, err)
	assert.Empty(t, r.Results)
	assert.NotNil(t, r.Results)
	assert.Empty(t, buf.String())
}
