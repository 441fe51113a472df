// Package tag merges the two tag representations into one view.
//
// A tag exists in the registry (the tags table, authoritative for colour and
// creation time) and in the tag arrays stored on each note (authoritative
// only for membership). Registry membership can also be recorded explicitly
// in note_tags. Reconcile produces one counted entry per distinct name.
package tag

import (
	"sort"
	"strings"

	"github.com/jpl-au/kbase/internal/store"
)

const (
	// PlaceholderColor is given to unregistered names and to registry tags
	// without a colour.
	PlaceholderColor = "#6366f1"

	// UnregisteredPrefix marks synthesised ids so callers can tell a name
	// that only lives in note arrays from a registry entry.
	UnregisteredPrefix = "unregistered:"
)

// View is one reconciled tag.
type View struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	NoteCount  int    `json:"note_count"`
	CreatedAt  int64  `json:"created_at,omitempty"`
	Registered bool   `json:"registered"`
}

// IsUnregisteredID reports whether id was synthesised by Reconcile.
// Callers use it to offer formalising the name into the registry.
func IsUnregisteredID(id string) bool {
	return strings.HasPrefix(id, UnregisteredPrefix)
}

// Reconcile merges registry tags, explicit registry links and note tag
// arrays for userID. Names compare case-sensitively. A note counts once per
// name no matter how often it lists the name or whether it is also linked.
// Rows belonging to other users are ignored.
//
// Order: registry tags newest first (ties by name), then unregistered names
// in lexical order.
func Reconcile(userID string, notes []store.Note, registry []store.Tag, links []store.TagLink) []View {
	// name -> set of note ids
	members := make(map[string]map[string]bool)
	add := func(name, noteID string) {
		s := members[name]
		if s == nil {
			s = make(map[string]bool)
			members[name] = s
		}
		s[noteID] = true
	}

	owned := make(map[string]bool, len(notes))
	for _, n := range notes {
		if n.UserID != userID {
			continue
		}
		owned[n.ID] = true
		for _, name := range n.Tags {
			add(name, n.ID)
		}
	}

	var tags []store.Tag
	byID := make(map[string]string, len(registry))
	seen := make(map[string]bool, len(registry))
	for _, t := range registry {
		if t.UserID != userID || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		byID[t.ID] = t.Name
		tags = append(tags, t)
	}

	for _, l := range links {
		name, ok := byID[l.TagID]
		if !ok || !owned[l.NoteID] {
			continue
		}
		add(name, l.NoteID)
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].CreatedAt != tags[j].CreatedAt {
			return tags[i].CreatedAt > tags[j].CreatedAt
		}
		return tags[i].Name < tags[j].Name
	})

	out := make([]View, 0, len(tags)+len(members))
	for _, t := range tags {
		color := t.Color
		if color == "" {
			color = PlaceholderColor
		}
		out = append(out, View{
			ID:         t.ID,
			Name:       t.Name,
			Color:      color,
			NoteCount:  len(members[t.Name]),
			CreatedAt:  t.CreatedAt,
			Registered: true,
		})
	}

	var extra []string
	for name := range members {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, View{
			ID:        UnregisteredPrefix + name,
			Name:      name,
			Color:     PlaceholderColor,
			NoteCount: len(members[name]),
		})
	}
	return out
}

// Unregistered returns the names in views that have no registry entry.
func Unregistered(views []View) []string {
	var names []string
	for _, v := range views {
		if !v.Registered {
			names = append(names, v.Name)
		}
	}
	return names
}
