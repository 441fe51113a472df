package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/auth"
	"github.com/jpl-au/kbase/internal/config"
	"github.com/jpl-au/kbase/internal/httpapi"
	"github.com/jpl-au/kbase/internal/note"
	"github.com/jpl-au/kbase/internal/repo"
	"github.com/jpl-au/kbase/internal/store"
)

type client struct {
	t       *testing.T
	handler http.Handler
	tokens  map[string]string
}

func setup(t *testing.T) *client {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, note.Init(false, "", false, dir))
	svc, err := note.Open(filepath.Join(dir, repo.Dir, repo.DBFile), &config.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	j, err := auth.NewJWT("test-secret")
	require.NoError(t, err)

	c := &client{t: t, handler: httpapi.New(svc, j).Handler(), tokens: map[string]string{}}
	for _, u := range []string{"alice", "bob"} {
		tok, err := j.Mint(u, time.Hour)
		require.NoError(t, err)
		c.tokens[u] = tok
	}
	return c
}

// do sends a request as user (empty for anonymous). A non-nil body that is
// not an io.Reader is sent as JSON.
func (c *client) do(user, method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+c.tokens[user])
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAuth(t *testing.T) {
	c := setup(t)

	assert.Equal(t, http.StatusOK, c.do("", "GET", "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do("", "GET", "/api/v1/notes", nil).Code)

	req := httptest.NewRequest("GET", "/api/v1/notes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusOK, c.do("alice", "GET", "/api/v1/notes", nil).Code)
}

func TestNotes(t *testing.T) {
	c := setup(t)

	w := c.do("alice", "POST", "/api/v1/notes", map[string]any{"title": "Plan", "body": "text", "tags": []string{"a", "a"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	n := decode[store.NoteJSON](t, w)
	assert.Equal(t, []string{"a"}, n.Tags)
	assert.Equal(t, "text", n.Body)

	w = c.do("alice", "PATCH", "/api/v1/notes/"+n.ID, map[string]any{"is_favorite": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[store.NoteJSON](t, w).Favorite)

	w = c.do("alice", "GET", "/api/v1/notes?favorite=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]store.NoteJSON](t, w)["notes"], 1)

	assert.Equal(t, http.StatusNotFound, c.do("bob", "GET", "/api/v1/notes/"+n.ID, nil).Code,
		"another user's note does not exist for bob")
	assert.Equal(t, http.StatusNotFound, c.do("bob", "DELETE", "/api/v1/notes/"+n.ID, nil).Code)

	assert.Equal(t, http.StatusNoContent, c.do("alice", "DELETE", "/api/v1/notes/"+n.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do("alice", "GET", "/api/v1/notes/"+n.ID, nil).Code)
}

func TestBadRequests(t *testing.T) {
	c := setup(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"empty title", "POST", "/api/v1/notes", map[string]any{"title": " "}},
		{"bad favourite", "GET", "/api/v1/notes?favorite=maybe", nil},
		{"bad archived", "GET", "/api/v1/notes?archived=never", nil},
		{"negative limit", "GET", "/api/v1/search?q=x&limit=-1", nil},
		{"bad colour", "POST", "/api/v1/tags", map[string]any{"name": "t", "color": "red"}},
		{"not json", "POST", "/api/v1/folders", strings.NewReader("{")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.do("alice", tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSearch(t *testing.T) {
	c := setup(t)

	for _, title := range []string{"Roadmap", "Roadmap draft", "Groceries"} {
		require.Equal(t, http.StatusCreated, c.do("alice", "POST", "/api/v1/notes", map[string]any{"title": title}).Code)
	}

	type result struct {
		Results []store.NoteJSON `json:"results"`
		Total   int              `json:"total"`
		Query   string           `json:"query"`
	}

	w := c.do("alice", "GET", "/api/v1/search?q=roadmap", nil)
	require.Equal(t, http.StatusOK, w.Code)
	r := decode[result](t, w)
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, "Roadmap", r.Results[0].Title, "exact title outranks a longer one")

	w = c.do("alice", "GET", "/api/v1/search?q=", nil)
	require.Equal(t, http.StatusOK, w.Code)
	r = decode[result](t, w)
	assert.NotNil(t, r.Results)
	assert.Empty(t, r.Results)

	w = c.do("bob", "GET", "/api/v1/search?q=roadmap", nil)
	assert.Equal(t, 0, decode[result](t, w).Total)
}

func TestFolders(t *testing.T) {
	c := setup(t)

	w := c.do("alice", "POST", "/api/v1/folders", map[string]any{"name": "Work"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	parent := decode[store.FolderJSON](t, w)

	w = c.do("alice", "POST", "/api/v1/folders", map[string]any{"name": "Meetings", "parent_id": parent.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	child := decode[store.FolderJSON](t, w)

	w = c.do("alice", "PATCH", "/api/v1/folders/"+parent.ID, map[string]any{"parent_id": child.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Equal(t, http.StatusConflict, c.do("alice", "DELETE", "/api/v1/folders/"+parent.ID, nil).Code)

	w = c.do("alice", "GET", "/api/v1/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tree := decode[map[string]any](t, w)
	assert.Len(t, tree["roots"], 1)
	assert.NotContains(t, tree, "warning")

	assert.Equal(t, http.StatusNoContent, c.do("alice", "DELETE", "/api/v1/folders/"+child.ID, nil).Code)
}

func TestTags(t *testing.T) {
	c := setup(t)

	w := c.do("alice", "POST", "/api/v1/tags", map[string]any{"name": "work", "color": "#112233"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, http.StatusConflict, c.do("alice", "POST", "/api/v1/tags", map[string]any{"name": "work"}).Code)

	w = c.do("alice", "POST", "/api/v1/notes", map[string]any{"title": "n"})
	n := decode[store.NoteJSON](t, w)
	assert.Equal(t, http.StatusNoContent, c.do("alice", "PUT", "/api/v1/notes/"+n.ID+"/tags/work", nil).Code)

	type view struct {
		Name      string `json:"name"`
		NoteCount int    `json:"note_count"`
	}
	w = c.do("alice", "GET", "/api/v1/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[map[string][]view](t, w)["tags"]
	require.Len(t, views, 1)
	assert.Equal(t, view{Name: "work", NoteCount: 1}, views[0])

	assert.Equal(t, http.StatusNoContent, c.do("alice", "DELETE", "/api/v1/tags/work", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do("alice", "DELETE", "/api/v1/tags/work", nil).Code)
}

func TestAssistGate(t *testing.T) {
	c := setup(t)

	w := c.do("alice", "POST", "/api/v1/notes", map[string]any{"title": "n"})
	n := decode[store.NoteJSON](t, w)
	body := map[string]any{"note_id": n.ID}

	w = c.do("alice", "POST", "/api/v1/ai/summarize", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AI_FEATURES_DISABLED", decode[map[string]string](t, w)["code"])

	assert.Equal(t, http.StatusBadRequest, c.do("alice", "POST", "/api/v1/ai/dance", body).Code)

	w = c.do("alice", "PUT", "/api/v1/privacy", map[string]any{"ai_features_enabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do("alice", "POST", "/api/v1/ai/summarize", body)
	assert.Equal(t, http.StatusNotImplemented, w.Code, "no assistant is configured")

	w = c.do("bob", "POST", "/api/v1/ai/summarize", body)
	assert.Equal(t, http.StatusForbidden, w.Code, "privacy is per user")
}

func TestPlugins(t *testing.T) {
	c := setup(t)

	manifest := "name: word-count\nversion: 1.0.0\npermissions: [notes:read]\n"
	w := c.do("alice", "POST", "/api/v1/plugins?enabled=true", strings.NewReader(manifest))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, decode[store.Plugin](t, w).Enabled)

	assert.Equal(t, http.StatusConflict, c.do("alice", "POST", "/api/v1/plugins", strings.NewReader(manifest)).Code)
	assert.Equal(t, http.StatusBadRequest, c.do("alice", "POST", "/api/v1/plugins", strings.NewReader("name: x\nrun: rm -rf /\n")).Code)

	w = c.do("alice", "PATCH", "/api/v1/plugins/word-count", map[string]any{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[store.Plugin](t, w).Enabled)

	assert.Equal(t, http.StatusNoContent, c.do("alice", "DELETE", "/api/v1/plugins/word-count", nil).Code)
}

func TestMetrics(t *testing.T) {
	c := setup(t)
	c.do("alice", "GET", "/api/v1/notes", nil)

	w := c.do("", "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kbase_http_requests_total")
}
