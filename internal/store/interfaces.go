// interfaces.go defines the storage abstraction for note persistence.
//
// Separated from the SQLite implementation to enable testing and potential
// alternative backends. The interfaces are granular (NoteReader, Searcher,
// Tagger, etc.) so consumers only depend on the capabilities they need.
//
// Design: Every method takes the calling user's id and scopes its query to
// that user. Callers that merge collections still re-check UserID on each
// row; the store scoping is the first line, not the only one.

package store

import (
	"context"
	"database/sql"
)

// NoteReader defines read-only note operations.
type NoteReader interface {
	// Note returns a single note or ErrNotFound.
	Note(ctx context.Context, userID, id string) (*Note, error)

	// ListNotes returns notes ordered by updated_at desc, then id.
	ListNotes(ctx context.Context, userID string, opts ListOptions) ([]Note, error)
}

// NoteWriter defines note mutations. Every mutation refreshes updated_at.
type NoteWriter interface {
	CreateNote(ctx context.Context, userID string, in NoteInput) (*Note, error)
	UpdateNote(ctx context.Context, userID, id string, p NotePatch) (*Note, error)

	// DeleteNote removes the note and its registry memberships.
	DeleteNote(ctx context.Context, userID, id string) error
}

// Searcher defines the full-text query and the lookups used to intersect
// its results with structured filters.
type Searcher interface {
	// Search runs an FTS5 match and returns raw hits ordered by bm25.
	// A limit of 0 returns every match.
	Search(ctx context.Context, userID, query string, limit int) ([]Hit, error)

	// FolderNoteIDs returns ids of notes filed directly in folderID.
	FolderNoteIDs(ctx context.Context, userID, folderID string) ([]string, error)

	// FavoriteNoteIDs returns ids of the user's favourite notes.
	FavoriteNoteIDs(ctx context.Context, userID string) ([]string, error)

	// TaggedNoteIDs returns ids of notes linked through the registry to any
	// of the named tags.
	TaggedNoteIDs(ctx context.Context, userID string, names []string) ([]string, error)
}

// FolderStore defines folder persistence.
type FolderStore interface {
	Folder(ctx context.Context, userID, id string) (*Folder, error)
	ListFolders(ctx context.Context, userID string) ([]Folder, error)

	// ListFoldersWithCounts returns folders ordered by created_at desc with
	// the number of notes filed directly in each.
	ListFoldersWithCounts(ctx context.Context, userID string) ([]FolderCount, error)

	CreateFolder(ctx context.Context, userID string, in FolderInput) (*Folder, error)
	UpdateFolder(ctx context.Context, userID, id string, p FolderPatch) (*Folder, error)
	DeleteFolder(ctx context.Context, userID, id string) error

	// FolderUsage reports how many subfolders and notes reference a folder.
	FolderUsage(ctx context.Context, userID, id string) (children, notes int, err error)
}

// Tagger defines tag registry operations.
type Tagger interface {
	// ListTags returns registry entries ordered by created_at desc.
	ListTags(ctx context.Context, userID string) ([]Tag, error)

	// ListTagLinks returns every registry membership row for the user.
	ListTagLinks(ctx context.Context, userID string) ([]TagLink, error)

	TagByName(ctx context.Context, userID, name string) (*Tag, error)

	// CreateTag returns ErrAlreadyExists when the name is taken.
	CreateTag(ctx context.Context, userID, name, color string) (*Tag, error)

	// DeleteTag removes the tag and its memberships.
	DeleteTag(ctx context.Context, userID, id string) error

	LinkTag(ctx context.Context, userID, tagID, noteID string) error
	UnlinkTag(ctx context.Context, userID, tagID, noteID string) error
}

// HistoryStore defines search history persistence.
type HistoryStore interface {
	AppendHistory(ctx context.Context, e HistoryEntry) error
	ListHistory(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}

// ProfileStore defines per-user settings persistence.
type ProfileStore interface {
	// Profile returns ErrNotFound when the user has never saved settings.
	Profile(ctx context.Context, userID string) (*Profile, error)
	SavePrivacy(ctx context.Context, userID string, p Privacy) error
}

// PluginStore defines installed plugin persistence.
type PluginStore interface {
	InstallPlugin(ctx context.Context, userID string, p Plugin) (*Plugin, error)
	ListPlugins(ctx context.Context, userID string) ([]Plugin, error)
	SetPluginEnabled(ctx context.Context, userID, name string, enabled bool) (*Plugin, error)
	RemovePlugin(ctx context.Context, userID, name string) error
}

// Maintainer defines operations for database maintenance and lifecycle.
type Maintainer interface {
	// Close releases the database connection.
	Close() error

	// DB exposes the underlying connection for extensions needing custom tables.
	DB() *sql.DB

	// Checkpoint flushes WAL to the main database file.
	Checkpoint(ctx context.Context) error
}

// Store defines the full persistence interface.
type Store interface {
	NoteReader
	NoteWriter
	Searcher
	FolderStore
	Tagger
	HistoryStore
	ProfileStore
	PluginStore
	Maintainer
}
