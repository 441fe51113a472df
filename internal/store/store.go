// Package store defines note persistence types and the Store interface.
// Implementations handle the actual database operations while consumers
// depend only on this interface, enabling testing and alternative backends.
package store

import (
	"encoding/json"
	"time"
)

// Note is a single user-authored document. Tags is the denormalised list of
// tag names carried on the row itself; it may contain duplicates as stored.
type Note struct {
	ID        string   // Public identifier (uuid)
	UserID    string   // Owning user
	Title     string   // Display title
	Body      string   // Note text, may be empty
	Tags      []string // Denormalised tag names in stored order
	FolderID  *string  // Containing folder, nil for "no folder"
	Favorite  bool     // Starred by the user
	Archived  bool     // Hidden from default listings
	CreatedAt int64    // Unix timestamp of creation
	UpdatedAt int64    // Unix timestamp of the last mutation
}

// UniqueTags returns the note's tag names with duplicates removed, keeping
// first-seen order. Comparison is case-sensitive.
func (n *Note) UniqueTags() []string {
	if len(n.Tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(n.Tags))
	out := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// HasAnyTag reports whether the note carries at least one of the given names.
func (n *Note) HasAnyTag(names map[string]bool) bool {
	for _, t := range n.Tags {
		if names[t] {
			return true
		}
	}
	return false
}

// NoteJSON is the API-friendly representation of a Note with RFC3339
// timestamps and deduplicated tags.
type NoteJSON struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Body      string   `json:"body,omitempty"`
	Tags      []string `json:"tags"`
	FolderID  *string  `json:"folder_id"`
	Favorite  bool     `json:"is_favorite"`
	Archived  bool     `json:"is_archived"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// ToJSON converts a Note to its API representation. The body parameter
// controls whether the note text is included, allowing compact listings.
func (n *Note) ToJSON(body bool) NoteJSON {
	tags := n.UniqueTags()
	if tags == nil {
		tags = []string{}
	}
	j := NoteJSON{
		ID:        n.ID,
		Title:     n.Title,
		Tags:      tags,
		FolderID:  n.FolderID,
		Favorite:  n.Favorite,
		Archived:  n.Archived,
		CreatedAt: formatTime(n.CreatedAt),
		UpdatedAt: formatTime(n.UpdatedAt),
	}
	if body {
		j.Body = n.Body
	}
	return j
}

// Hit is a raw full-text match. Score is the FTS5 bm25 value, where lower
// (more negative) means more relevant.
type Hit struct {
	Note
	Score float64
}

// Folder groups notes. ParentID references another folder of the same user.
type Folder struct {
	ID          string
	UserID      string
	Name        string
	ParentID    *string
	Color       string
	Description string
	CreatedAt   int64
	UpdatedAt   int64
}

// FolderCount pairs a folder with the number of notes filed directly in it.
type FolderCount struct {
	Folder
	NoteCount int
}

// FolderJSON is the API-friendly representation of a Folder.
type FolderJSON struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ParentID    *string `json:"parent_id"`
	Color       string  `json:"color"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ToJSON converts a Folder to its API representation.
func (f *Folder) ToJSON() FolderJSON {
	return FolderJSON{
		ID:          f.ID,
		Name:        f.Name,
		ParentID:    f.ParentID,
		Color:       f.Color,
		Description: f.Description,
		CreatedAt:   formatTime(f.CreatedAt),
		UpdatedAt:   formatTime(f.UpdatedAt),
	}
}

// Tag is a registry entry. The registry is authoritative for display
// attributes; membership may also come from note tag arrays.
type Tag struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	CreatedAt int64
}

// TagLink records explicit registry membership of a note.
type TagLink struct {
	TagID  string
	NoteID string
}

// HistoryEntry is one executed search.
type HistoryEntry struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Query        string `json:"query"`
	ResultsCount int    `json:"results_count"`
	CreatedAt    int64  `json:"created_at"`
}

// Privacy holds the per-user privacy toggles. The zero value is the
// default: everything disabled.
type Privacy struct {
	AIFeatures  bool `json:"ai_features_enabled" yaml:"ai_features_enabled"`
	DataSharing bool `json:"data_sharing_enabled" yaml:"data_sharing_enabled"`
	Analytics   bool `json:"analytics_enabled" yaml:"analytics_enabled"`
	Encryption  bool `json:"encryption_enabled" yaml:"encryption_enabled"`
}

// Profile holds per-user settings.
type Profile struct {
	UserID    string
	Privacy   Privacy
	UpdatedAt int64
}

// PluginManifest declares what a plugin asks for. It is stored as JSON and
// never executed.
type PluginManifest struct {
	Permissions []string `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Commands    []string `json:"commands,omitempty" yaml:"commands,omitempty"`
	Panels      []string `json:"panels,omitempty" yaml:"panels,omitempty"`
}

// Plugin is an installed plugin record.
type Plugin struct {
	ID          string         `json:"id"`
	UserID      string         `json:"-"`
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description,omitempty"`
	Manifest    PluginManifest `json:"manifest"`
	Enabled     bool           `json:"enabled"`
	InstalledAt int64          `json:"installed_at"`
	UpdatedAt   int64          `json:"updated_at"`
}

// NoteInput describes a note to create.
type NoteInput struct {
	Title    string
	Body     string
	Tags     []string
	FolderID *string
	Favorite bool
}

// NotePatch describes a partial note update. Nil fields are left unchanged.
// ClearFolder moves the note out of any folder and wins over FolderID.
type NotePatch struct {
	Title       *string
	Body        *string
	Tags        *[]string
	FolderID    *string
	ClearFolder bool
	Favorite    *bool
	Archived    *bool
}

// Archived selects how archived notes are treated when listing.
type Archived int

const (
	// ArchivedExclude hides archived notes (the default).
	ArchivedExclude Archived = iota
	// ArchivedOnly lists archived notes only.
	ArchivedOnly
	// ArchivedAll lists both.
	ArchivedAll
)

// ListOptions filters a note listing. Zero value lists every unarchived note.
type ListOptions struct {
	FolderID *string
	Tag      string
	Favorite *bool
	Archived Archived
	Limit    int // 0 means no limit
	Offset   int
}

// FolderInput describes a folder to create.
type FolderInput struct {
	Name        string
	ParentID    *string
	Color       string
	Description string
}

// FolderPatch describes a partial folder update. ClearParent moves the
// folder to the top level and wins over ParentID.
type FolderPatch struct {
	Name        *string
	Color       *string
	Description *string
	ParentID    *string
	ClearParent bool
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
// Use this instead of json.Marshal when the output will be displayed to users.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
