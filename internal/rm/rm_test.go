package rm_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/jpl-au/kbase/internal/rm"
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

func TestRun_DeletesNotes(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	a, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "a"})
	require.NoError(t, err)
	b, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "b"})
	require.NoError(t, err)

	var buf bytes.Buffer
	r, err := rm.Run(ctx, &buf, svc, "alice", []string{a.ID, b.ID}, rm.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, r.Deleted)
	assert.Contains(t, buf.String(), "Deleted "+a.ID)

	_, err = svc.Note(ctx, "alice", a.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRun_DryRun(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "keep me"})
	require.NoError(t, err)

	var buf bytes.Buffer
	r, err := rm.Run(ctx, &buf, svc, "alice", []string{n.ID}, rm.Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, r.DryRun)
	assert.Contains(t, buf.String(), "Would delete")

	_, err = svc.Note(ctx, "alice", n.ID)
	assert.NoError(t, err)
}

func TestRun_StopsAtMissing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "a"})
	require.NoError(t, err)

	var buf bytes.Buffer
	r, err := rm.Run(ctx, &buf, svc, "alice", []string{n.ID, "missing", "never"}, rm.Options{})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []string{n.ID}, r.Deleted)
}

func TestRun_OtherUsersNotesAreInvisible(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	n, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "a"})
	require.NoError(t, err)

	_, err = rm.Run(ctx, &bytes.Buffer{}, svc, "bob", []string{n.ID}, rm.Options{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
