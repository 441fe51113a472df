package note_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/edit"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/plugin"
	"github.com/jpl-au/kbase/internal/privacy"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/jpl-au/kbase/internal/validate"
)

const alice, bob = "alice", "bob"

func ptr[T any](v T) *T { return &v }

// setupService creates a repository in a temp dir and opens a service on it.
func setupService(t *testing.T, cfg *config.Config) *note.Service {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	dir := t.TempDir()
	require.NoError(t, note.Init(false, "", false, dir), "init repository")

	svc, err := note.Open(filepath.Join(dir, repo.Dir, repo.DBFile), cfg)
	require.NoError(t, err, "open service")
	t.Cleanup(func() { svc.Close() })
	return svc
}

func mustNote(t *testing.T, svc *note.Service, user string, in store.NoteInput) *store.Note {
	t.Helper()
	n, err := svc.CreateNote(context.Background(), user, in)
	require.NoError(t, err)
	return n
}

func TestService_NoteLifecycle(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	n := mustNote(t, svc, alice, store.NoteInput{Title: "Roadmap", Body: "Q1 goals", Tags: []string{"plan"}})

	got, err := svc.Note(ctx, alice, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q1 goals", got.Body)

	_, err = svc.Note(ctx, bob, n.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "other users cannot see the note")

	up, err := svc.UpdateNote(ctx, alice, n.ID, store.NotePatch{Favorite: ptr(true)})
	require.NoError(t, err)
	assert.True(t, up.Favorite)

	before, after, err := svc.EditNote(ctx, alice, n.ID, edit.Options{Old: "Q1", New: "Q2"})
	require.NoError(t, err)
	assert.Equal(t, "Q1 goals", before.Body)
	assert.Equal(t, "Q2 goals", after.Body)

	require.NoError(t, svc.DeleteNote(ctx, alice, n.ID))
	_, err = svc.Note(ctx, alice, n.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_ConfiguredLimits(t *testing.T) {
	cfg := &config.Config{Limits: config.Limits{MaxTitle: ptr(5), MaxBody: ptr[int64](4)}}
	svc := setupService(t, cfg)
	ctx := context.Background()

	_, err := svc.CreateNote(ctx, alice, store.NoteInput{Title: "too long"})
	assert.ErrorIs(t, err, validate.ErrInvalidTitle)

	_, err = svc.CreateNote(ctx, alice, store.NoteInput{Title: "ok", Body: "12345"})
	assert.ErrorIs(t, err, validate.ErrContentTooLarge)

	n := mustNote(t, svc, alice, store.NoteInput{Title: "ok", Body: "1234"})
	_, err = svc.UpdateNote(ctx, alice, n.ID, store.NotePatch{Body: ptr("123456")})
	assert.ErrorIs(t, err, validate.ErrContentTooLarge)
}

func TestService_ListNotesDefaultLimit(t *testing.T) {
	svc := setupService(t, &config.Config{Search: config.Search{Limit: ptr(2)}})
	for i := range 3 {
		mustNote(t, svc, alice, store.NoteInput{Title: strings.Repeat("n", i+1)})
	}
	notes, err := svc.ListNotes(context.Background(), alice, store.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}

func TestService_Search(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	f, err := svc.CreateFolder(ctx, alice, store.FolderInput{Name: "Work"})
	require.NoError(t, err)

	a := mustNote(t, svc, alice, store.NoteInput{Title: "Project roadmap", FolderID: &f.ID, Favorite: true})
	mustNote(t, svc, alice, store.NoteInput{Title: "Personal roadmap"})
	bf, err := svc.CreateFolder(ctx, bob, store.FolderInput{Name: "Work"})
	require.NoError(t, err)
	mustNote(t, svc, bob, store.NoteInput{Title: "Bob's roadmap", FolderID: &bf.ID})

	_, err = svc.CreateNote(ctx, bob, store.NoteInput{Title: "Bob's other roadmap", FolderID: &f.ID})
	assert.ErrorIs(t, err, store.ErrNotFound, "another user's folder does not exist for bob")

	resp, err := svc.Search(ctx, search.Request{UserID: alice, Query: "roadmap"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	for _, n := range resp.Results {
		assert.Equal(t, alice, n.UserID)
	}

	resp, err = svc.Search(ctx, search.Request{
		UserID: alice,
		Query:  "roadmap",
		Filter: search.Filter{FolderID: &f.ID, Favorite: ptr(true)},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, a.ID, resp.Results[0].ID)

	resp, err = svc.Search(ctx, search.Request{UserID: alice, Query: "   "})
	assert.ErrorIs(t, err, search.ErrInvalidQuery)
	assert.Empty(t, resp.Results)

	// The blank query is not recorded.
	waitHistory(t, svc, alice, 2)
}

func waitHistory(t *testing.T, svc *note.Service, user string, want int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		h, err := svc.History(context.Background(), user, 0)
		return err == nil && len(h) == want
	}, timeout, tick)
}

func TestService_HistoryDisabled(t *testing.T) {
	svc := setupService(t, &config.Config{History: config.History{Enabled: ptr(false)}})
	ctx := context.Background()
	mustNote(t, svc, alice, store.NoteInput{Title: "roadmap"})

	_, err := svc.Search(ctx, search.Request{UserID: alice, Query: "roadmap"})
	require.NoError(t, err)

	h, err := svc.History(ctx, alice, 0)
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestService_Tags(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateTag(ctx, alice, "work", "#ff0000")
	require.NoError(t, err)
	_, err = svc.CreateTag(ctx, alice, "work", "")
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	n1 := mustNote(t, svc, alice, store.NoteInput{Title: "a", Tags: []string{"work", "idea", "idea"}})
	n2 := mustNote(t, svc, alice, store.NoteInput{Title: "b"})
	require.NoError(t, svc.AttachTag(ctx, alice, "work", n2.ID))
	require.NoError(t, svc.AttachTag(ctx, alice, "work", n1.ID), "linking an array member counts once")

	views, err := svc.Tags(ctx, alice)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "work", views[0].Name)
	assert.Equal(t, 2, views[0].NoteCount)
	assert.Equal(t, "#ff0000", views[0].Color)
	assert.Equal(t, "idea", views[1].Name)
	assert.False(t, views[1].Registered)

	created, err := svc.FormaliseTags(ctx, alice)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "idea", created[0].Name)

	require.NoError(t, svc.DetachTag(ctx, alice, "work", n2.ID))
	require.NoError(t, svc.DeleteTag(ctx, alice, "work"))
	assert.ErrorIs(t, svc.DeleteTag(ctx, alice, "work"), store.ErrNotFound)

	views, err = svc.Tags(ctx, alice)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, v := range views {
		names[v.Name] = v.Registered
	}
	assert.Equal(t, map[string]bool{"idea": true, "work": false}, names,
		"a deleted registry tag survives as unregistered while notes carry it")
}

func TestService_TagsRegisterObserved(t *testing.T) {
	svc := setupService(t, &config.Config{Tags: config.Tags{RegisterObserved: ptr(true)}})
	ctx := context.Background()
	mustNote(t, svc, alice, store.NoteInput{Title: "a", Tags: []string{"draft"}})

	views, err := svc.Tags(ctx, alice)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].Registered, "the view reflects state before registration")

	views, err = svc.Tags(ctx, alice)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Registered)
}

func TestService_Folders(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	a, err := svc.CreateFolder(ctx, alice, store.FolderInput{Name: "A"})
	require.NoError(t, err)
	b, err := svc.CreateFolder(ctx, alice, store.FolderInput{Name: "B", ParentID: &a.ID})
	require.NoError(t, err)
	mustNote(t, svc, alice, store.NoteInput{Title: "in b", FolderID: &b.ID})

	tree, err := svc.FolderTree(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, tree.Err())
	require.Len(t, tree.Roots, 1)
	require.Len(t, tree.Roots[0].Children, 1)
	assert.Equal(t, 1, tree.Roots[0].Children[0].NoteCount)
	assert.Equal(t, 2, tree.Count())

	_, err = svc.UpdateFolder(ctx, alice, a.ID, store.FolderPatch{ParentID: &b.ID})
	assert.ErrorIs(t, err, note.ErrFolderCycle)
	_, err = svc.UpdateFolder(ctx, alice, a.ID, store.FolderPatch{ParentID: &a.ID})
	assert.ErrorIs(t, err, note.ErrFolderCycle)

	assert.ErrorIs(t, svc.DeleteFolder(ctx, alice, a.ID), note.ErrFolderNotEmpty)
	assert.ErrorIs(t, svc.DeleteFolder(ctx, alice, b.ID), note.ErrFolderNotEmpty)
	assert.ErrorIs(t, svc.DeleteFolder(ctx, bob, a.ID), store.ErrNotFound)

	empty, err := svc.CreateFolder(ctx, alice, store.FolderInput{Name: "Empty"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteFolder(ctx, alice, empty.ID))
}

type upper struct{}

func (upper) Run(ctx context.Context, action ai.Action, text string) (string, error) {
	return strings.ToUpper(text), nil
}

func TestService_PrivacyGate(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()
	n := mustNote(t, svc, alice, store.NoteInput{Title: "t", Body: "b"})

	p, err := svc.Privacy(ctx, alice)
	require.NoError(t, err)
	assert.False(t, p.AIFeatures)

	_, err = svc.Assist(ctx, alice, ai.Summarize, n.ID)
	assert.ErrorIs(t, err, privacy.ErrAIDisabled)

	require.NoError(t, svc.SetPrivacy(ctx, alice, store.Privacy{AIFeatures: true}))
	_, err = svc.Assist(ctx, alice, ai.Summarize, n.ID)
	assert.ErrorIs(t, err, ai.ErrNoAssistant)

	svc.SetAssistant(upper{})
	out, err := svc.Assist(ctx, alice, ai.Summarize, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "T\n\nB", out)

	_, err = svc.Assist(ctx, bob, ai.Summarize, n.ID)
	assert.ErrorIs(t, err, privacy.ErrAIDisabled)
}

func TestService_Plugins(t *testing.T) {
	svc := setupService(t, nil)
	ctx := context.Background()

	m, err := plugin.Parse(strings.NewReader("name: word-count\nversion: 1.0.0\npermissions: [notes:read]\n"))
	require.NoError(t, err)

	p, err := svc.InstallPlugin(ctx, alice, m, false)
	require.NoError(t, err)
	assert.False(t, p.Enabled)

	_, err = svc.InstallPlugin(ctx, alice, m, false)
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	p, err = svc.SetPluginEnabled(ctx, alice, "word-count", true)
	require.NoError(t, err)
	assert.True(t, p.Enabled)

	list, err := svc.Plugins(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.RemovePlugin(ctx, alice, "word-count"))
	assert.ErrorIs(t, svc.RemovePlugin(ctx, alice, "word-count"), store.ErrNotFound)
}
