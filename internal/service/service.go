// Package service defines the shared interface for note operations.
// Commands, the MCP server, the HTTP API and extensions depend on this
// interface rather than the concrete implementation in internal/note.
package service

import (
	"context"
	"database/sql"

	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/edit"
	"github.com/jpl-au/kbase/internal/folder"
	"github.com/jpl-au/kbase/internal/plugin"
	"github.com/jpl-au/kbase/internal/search"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/jpl-au/kbase/internal/tag"
)

// Service defines all note operations. Every method is scoped to the given
// user id; an entity belonging to another user behaves as if it did not
// exist (store.ErrNotFound).
//
// Obtain one with note.New() and always defer Close():
//
//	svc, err := note.New("")
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	n, err := svc.CreateNote(ctx, "alice", store.NoteInput{Title: "Hello"})
type Service interface {
	// Close waits for pending history writes, checkpoints the WAL and
	// releases the database.
	Close() error

	// Note returns a single note.
	Note(ctx context.Context, userID, id string) (*store.Note, error)

	// ListNotes returns notes ordered by updated_at desc. A zero Limit uses
	// the configured search.limit.
	ListNotes(ctx context.Context, userID string, opts store.ListOptions) ([]store.Note, error)

	// CreateNote validates against configured limits and inserts a note.
	CreateNote(ctx context.Context, userID string, in store.NoteInput) (*store.Note, error)

	// UpdateNote applies a partial update and refreshes updated_at.
	UpdateNote(ctx context.Context, userID, id string, p store.NotePatch) (*store.Note, error)

	// EditNote applies a search/replace to the body. Returns the note as it
	// was before and after the edit.
	EditNote(ctx context.Context, userID, id string, opts edit.Options) (before, after *store.Note, err error)

	// DeleteNote hard-deletes a note and its registry memberships.
	DeleteNote(ctx context.Context, userID, id string) error

	// Search runs the search pipeline. An empty query returns
	// search.ErrInvalidQuery alongside an empty response. A zero Limit uses
	// the configured search.limit.
	Search(ctx context.Context, req search.Request) (search.Response, error)

	// History returns the user's recent searches, newest first.
	History(ctx context.Context, userID string, limit int) ([]store.HistoryEntry, error)

	// Tags returns the reconciled tag view (registry plus note arrays).
	Tags(ctx context.Context, userID string) ([]tag.View, error)

	// CreateTag adds a registry tag. Returns store.ErrAlreadyExists for a
	// taken name.
	CreateTag(ctx context.Context, userID, name, color string) (*store.Tag, error)

	// DeleteTag removes a registry tag by name, with its memberships.
	DeleteTag(ctx context.Context, userID, name string) error

	// AttachTag links a note to the named registry tag, registering the tag
	// first if needed.
	AttachTag(ctx context.Context, userID, name, noteID string) error

	// DetachTag removes a registry link.
	DetachTag(ctx context.Context, userID, name, noteID string) error

	// FormaliseTags registers every tag name that only exists in note
	// arrays. Returns the created registry entries.
	FormaliseTags(ctx context.Context, userID string) ([]store.Tag, error)

	// FolderTree returns the user's folders as a forest. Cycles in stored
	// data are severed and reported by Tree.Err, never returned as an error.
	FolderTree(ctx context.Context, userID string) (folder.Tree, error)

	// CreateFolder adds a folder.
	CreateFolder(ctx context.Context, userID string, in store.FolderInput) (*store.Folder, error)

	// UpdateFolder applies a partial update. Re-parenting that would create
	// a cycle returns note.ErrFolderCycle.
	UpdateFolder(ctx context.Context, userID, id string, p store.FolderPatch) (*store.Folder, error)

	// DeleteFolder removes an empty folder. A folder with subfolders or
	// notes returns note.ErrFolderNotEmpty.
	DeleteFolder(ctx context.Context, userID, id string) error

	// Privacy returns the user's privacy settings (all off if never set).
	Privacy(ctx context.Context, userID string) (store.Privacy, error)

	// SetPrivacy replaces the user's privacy settings.
	SetPrivacy(ctx context.Context, userID string, p store.Privacy) error

	// Assist runs an AI action on a note's text. Fails with
	// privacy.ErrAIDisabled unless the user enabled AI features.
	Assist(ctx context.Context, userID string, action ai.Action, noteID string) (string, error)

	// InstallPlugin records a plugin from its manifest.
	InstallPlugin(ctx context.Context, userID string, m *plugin.Manifest, enabled bool) (*store.Plugin, error)

	// Plugins lists installed plugins by name.
	Plugins(ctx context.Context, userID string) ([]store.Plugin, error)

	// SetPluginEnabled toggles a plugin.
	SetPluginEnabled(ctx context.Context, userID, name string, enabled bool) (*store.Plugin, error)

	// RemovePlugin uninstalls a plugin.
	RemovePlugin(ctx context.Context, userID, name string) error

	// DB returns the underlying SQLite connection for extensions.
	// Do not close it directly; use Close().
	DB() *sql.DB

	// Tx runs fn in a database transaction, committing if it returns nil.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// Checkpoint flushes the WAL to the main database file.
	Checkpoint(ctx context.Context) error
}
