package cat_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/cat"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/repo"
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

	n, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "T", Body: "one\ntwo\nthree\n"})
	require.NoError(t, err)

	tests := []struct {
		name string
		opts cat.Options
		want string
	}{
		{"plain", cat.Options{}, "one\ntwo\nthree\n"},
		{"title", cat.Options{Title: true}, "# T\n\none\ntwo\nthree\n"},
		{"range", cat.Options{StartLine: 2, EndLine: 2}, "two\n"},
		{"open end", cat.Options{StartLine: 3}, "three\n"},
		{"numbered", cat.Options{LineNumbers: true, EndLine: 1}, "     1\tone\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r, err := cat.Run(ctx, &buf, svc, "alice", n.ID, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, n.ID, r.Note.ID)
			assert.Equal(t, tt.want, buf.String())
		})
	}

	_, err = cat.Run(ctx, &bytes.Buffer{}, svc, "bob", n.ID, cat.Options{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
