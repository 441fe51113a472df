// filter.go implements post-query structured filtering.
//
// Design: Filtering is set intersection against membership sets resolved
// from the store, never a second query with the search text. That keeps the
// ranker's order intact: Apply only ever removes elements.

package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jpl-au/kbase/internal/store"
)

// Filter narrows a result set. Every set field must match (AND); within
// Tags any one name is enough (OR). A nil field or empty Tags means no
// constraint on that dimension.
type Filter struct {
	FolderID *string  `json:"folder_id,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Favorite *bool    `json:"favorite,omitempty"`
}

// Empty reports whether the filter constrains nothing.
func (f Filter) Empty() bool {
	return f.FolderID == nil && len(f.Tags) == 0 && f.Favorite == nil
}

// Membership holds the note id sets a Filter is evaluated against. Sets for
// dimensions the filter does not use are nil.
type Membership struct {
	Folder   map[string]bool // notes filed in Filter.FolderID
	Favorite map[string]bool // the user's favourite notes
	Tagged   map[string]bool // notes linked via the registry to any Filter.Tags
}

// Lookup is the store surface needed to resolve a Membership.
type Lookup interface {
	FolderNoteIDs(ctx context.Context, userID, folderID string) ([]string, error)
	FavoriteNoteIDs(ctx context.Context, userID string) ([]string, error)
	TaggedNoteIDs(ctx context.Context, userID string, names []string) ([]string, error)
}

// Resolve runs the lookups f needs concurrently. A failure in one cancels
// the others. Unknown folder ids and tag names simply yield empty sets.
func Resolve(ctx context.Context, src Lookup, userID string, f Filter) (Membership, error) {
	var m Membership
	g, ctx := errgroup.WithContext(ctx)

	if f.FolderID != nil {
		g.Go(func() error {
			ids, err := src.FolderNoteIDs(ctx, userID, *f.FolderID)
			m.Folder = set(ids)
			return err
		})
	}
	if f.Favorite != nil {
		g.Go(func() error {
			ids, err := src.FavoriteNoteIDs(ctx, userID)
			m.Favorite = set(ids)
			return err
		})
	}
	if len(f.Tags) > 0 {
		g.Go(func() error {
			ids, err := src.TaggedNoteIDs(ctx, userID, f.Tags)
			m.Tagged = set(ids)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return Membership{}, err
	}
	return m, nil
}

// Apply returns the notes that satisfy f, in their original order.
func Apply(notes []store.Note, f Filter, m Membership) []store.Note {
	if f.Empty() {
		return notes
	}

	var want map[string]bool
	if len(f.Tags) > 0 {
		want = set(f.Tags)
	}

	out := make([]store.Note, 0, len(notes))
	for _, n := range notes {
		if f.FolderID != nil && !m.Folder[n.ID] {
			continue
		}
		if f.Favorite != nil && m.Favorite[n.ID] != *f.Favorite {
			continue
		}
		if want != nil && !n.HasAnyTag(want) && !m.Tagged[n.ID] {
			continue
		}
		out = append(out, n)
	}
	return out
}

func set(ids []string) map[string]bool {
	s := make(map[string]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}
