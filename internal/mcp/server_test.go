package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/privacy"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/jpl-au/kbase/internal/store"
)

func setupHandlers(t *testing.T, user string) *handlers {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, note.Init(false, "", false, dir))

	svc, err := note.Open(filepath.Join(dir, repo.Dir, repo.DBFile), &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	h := &handlers{user: user}
	h.attach(svc)
	return h
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "want text content, got %T", res.Content[0])
	return tc.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, res.IsError, text(t, res))
	var v T
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &v))
	return v
}

func TestRequireInit(t *testing.T) {
	h := &handlers{user: "alice"}
	res, err := h.listNotes(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, ErrNotInitialised, text(t, res))

	h = setupHandlers(t, "")
	res, err = h.listNotes(context.Background(), call(nil))
	require.NoError(t, err)
	assert.Equal(t, ErrNoUser, text(t, res))
}

func TestNoteTools(t *testing.T) {
	h := setupHandlers(t, "alice")
	ctx := context.Background()

	res, err := h.createNote(ctx, call(map[string]any{
		"title": "Plan",
		"body":  "one\ntwo\n",
		"tags":  []any{"work", "work", 3},
	}))
	require.NoError(t, err)
	created := decode[store.NoteJSON](t, res)
	assert.Equal(t, []string{"work"}, created.Tags)

	res, err = h.readNotes(ctx, call(map[string]any{"ids": []any{created.ID}, "start_line": 2.0}))
	require.NoError(t, err)
	assert.Equal(t, "two\n", decode[store.NoteJSON](t, res).Body)

	res, err = h.updateNote(ctx, call(map[string]any{"id": created.ID, "favorite": true}))
	require.NoError(t, err)
	updated := decode[store.NoteJSON](t, res)
	assert.True(t, updated.Favorite)
	assert.Equal(t, "Plan", updated.Title, "omitted fields are unchanged")

	res, err = h.editNote(ctx, call(map[string]any{"id": created.ID, "old": "two", "new": "three"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "+ three")

	res, err = h.listNotes(ctx, call(map[string]any{"favorite": true}))
	require.NoError(t, err)
	assert.Len(t, decode[[]store.NoteJSON](t, res), 1)

	res, err = h.listNotes(ctx, call(map[string]any{"archived": "sometimes"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.deleteNotes(ctx, call(map[string]any{"ids": []any{created.ID}}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = h.readNotes(ctx, call(map[string]any{"ids": []any{created.ID}}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSearchTool(t *testing.T) {
	h := setupHandlers(t, "alice")
	ctx := context.Background()

	_, err := h.createNote(ctx, call(map[string]any{"title": "Roadmap", "tags": []any{"work"}}))
	require.NoError(t, err)
	_, err = h.createNote(ctx, call(map[string]any{"title": "Roadmap draft"}))
	require.NoError(t, err)

	res, err := h.searchNotes(ctx, call(map[string]any{"query": "roadmap", "tags": []any{"work"}}))
	require.NoError(t, err)
	type result struct {
		Results []store.NoteJSON `json:"results"`
		Total   int              `json:"total"`
	}
	r := decode[result](t, res)
	assert.Equal(t, 1, r.Total)

	res, err = h.searchNotes(ctx, call(map[string]any{"query": "   "}))
	require.NoError(t, err)
	assert.Empty(t, decode[result](t, res).Results, "blank query is an empty result, not an error")

	res, err = h.searchHistory(ctx, call(map[string]any{"since": "soon"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestFolderAndTagTools(t *testing.T) {
	h := setupHandlers(t, "alice")
	ctx := context.Background()

	res, err := h.createFolder(ctx, call(map[string]any{"name": "Work"}))
	require.NoError(t, err)
	parent := decode[store.FolderJSON](t, res)

	res, err = h.createFolder(ctx, call(map[string]any{"name": "Meetings", "parent_id": parent.ID}))
	require.NoError(t, err)
	child := decode[store.FolderJSON](t, res)

	res, err = h.updateFolder(ctx, call(map[string]any{"id": parent.ID, "parent_id": child.ID}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "moving a folder under its child is refused")

	res, err = h.folderTree(ctx, call(nil))
	require.NoError(t, err)
	tree := decode[treeResult](t, res)
	require.Len(t, tree.Roots, 1)
	assert.Equal(t, "Work", tree.Roots[0].Name)
	assert.Empty(t, tree.Warning)

	res, err = h.deleteFolder(ctx, call(map[string]any{"id": parent.ID}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "non-empty folder")

	_, err = h.createNote(ctx, call(map[string]any{"title": "n", "tags": []any{"loose"}}))
	require.NoError(t, err)
	res, err = h.formaliseTags(ctx, call(nil))
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"registered": {"loose"}}, decode[map[string][]string](t, res))
}

func TestAssistGate(t *testing.T) {
	h := setupHandlers(t, "alice")
	ctx := context.Background()

	res, err := h.createNote(ctx, call(map[string]any{"title": "n"}))
	require.NoError(t, err)
	n := decode[store.NoteJSON](t, res)

	res, err = h.assist(ctx, call(map[string]any{"action": "summarize", "id": n.ID}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), privacy.Code)

	res, err = h.assist(ctx, call(map[string]any{"action": "dance", "id": n.ID}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = h.privacy(ctx, call(map[string]any{"ai_features_enabled": true}))
	require.NoError(t, err)
	assert.True(t, decode[store.Privacy](t, res).AIFeatures)
}

func TestParseNoteURI(t *testing.T) {
	id, err := parseNoteURI("kbase://notes/abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = parseNoteURI("kbase://notes/")
	assert.ErrorIs(t, err, ErrEmptyID)
	_, err = parseNoteURI("other://notes/abc")
	assert.ErrorIs(t, err, ErrInvalidURI)
	_, err = parseNoteURI("kbase://notes/a/b")
	assert.ErrorIs(t, err, ErrInvalidURI)
}

func TestGuideTool(t *testing.T) {
	h := &handlers{user: "alice"}
	ctx := context.Background()

	res, err := h.readGuide(ctx, call(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "# kbase")

	res, err = h.readGuide(ctx, call(map[string]any{"topic": "search"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "ranked")

	res, err = h.readGuide(ctx, call(map[string]any{"topic": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "tags")
}
