// Package format provides output formatting utilities for CLI display.
//
// Centralises presentation so command implementations focus on fetching
// data: column alignment, the folder tree drawing and search snippets all
// live here.
package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jpl-au/kbase/internal/folder"
	"github.com/jpl-au/kbase/internal/store"
	"github.com/jpl-au/kbase/internal/tag"
)

// snippetWidth bounds a search snippet line.
const snippetWidth = 80

// humanSize formats a byte count as human-readable (e.g., "1.2K", "3.4M").
func humanSize(bytes int64) string {
	const (
		_        = iota
		KB int64 = 1 << (10 * iota)
		MB
		GB
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1fG", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1fM", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1fK", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// ShortID returns the first eight characters of an id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func flags(n store.Note) string {
	var f []string
	if n.Favorite {
		f = append(f, "*")
	}
	if n.Archived {
		f = append(f, "archived")
	}
	if len(f) == 0 {
		return ""
	}
	return " [" + strings.Join(f, ",") + "]"
}

// List prints notes one per line: full id, title and flags.
func List(w io.Writer, notes []store.Note) error {
	for _, n := range notes {
		fmt.Fprintf(w, "%s  %s%s\n", n.ID, n.Title, flags(n))
	}
	return nil
}

// Long prints notes with id, size, update time and tags.
//
// Fixed-width columns come first; TAGS and TITLE vary in width and go last.
func Long(w io.Writer, notes []store.Note) error {
	if len(notes) == 0 {
		return nil
	}

	maxTags := 4 // "TAGS"
	tags := make([]string, len(notes))
	for i, n := range notes {
		tags[i] = strings.Join(n.UniqueTags(), ",")
		if tags[i] == "" {
			tags[i] = "-"
		}
		maxTags = max(maxTags, len(tags[i]))
	}

	fmt.Fprintf(w, "%-8s  %6s  %-16s  %-*s  %s\n", "ID", "SIZE", "UPDATED", maxTags, "TAGS", "TITLE")
	for i, n := range notes {
		updated := time.Unix(n.UpdatedAt, 0).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%-8s  %6s  %s  %-*s  %s%s\n",
			ShortID(n.ID), humanSize(int64(len(n.Body))), updated, maxTags, tags[i], n.Title, flags(n))
	}
	return nil
}

// SearchResults prints ranked results with a snippet of the first body line
// containing a query term.
func SearchResults(w io.Writer, notes []store.Note, query string) error {
	terms := strings.Fields(strings.ToLower(query))
	for i, n := range notes {
		fmt.Fprintf(w, "%2d. %s  %s%s\n", i+1, ShortID(n.ID), n.Title, flags(n))
		if s := snippet(n.Body, terms); s != "" {
			fmt.Fprintf(w, "    %s\n", s)
		}
	}
	return nil
}

func snippet(body string, terms []string) string {
	for _, line := range strings.Split(body, "\n") {
		lower := strings.ToLower(line)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				line = strings.TrimSpace(line)
				if r := []rune(line); len(r) > snippetWidth {
					line = string(r[:snippetWidth-3]) + "..."
				}
				return line
			}
		}
	}
	return ""
}

// Tags prints the reconciled tag view as a table.
func Tags(w io.Writer, views []tag.View) error {
	if len(views) == 0 {
		return nil
	}
	maxName := 4 // "NAME"
	for _, v := range views {
		maxName = max(maxName, len(v.Name))
	}

	fmt.Fprintf(w, "%-*s  %5s  %-7s  %s\n", maxName, "NAME", "NOTES", "COLOR", "REGISTERED")
	for _, v := range views {
		reg := "yes"
		if !v.Registered {
			reg = "no"
		}
		fmt.Fprintf(w, "%-*s  %5d  %-7s  %s\n", maxName, v.Name, v.NoteCount, v.Color, reg)
	}
	return nil
}

// FolderTree draws the folder forest with note counts.
func FolderTree(w io.Writer, t folder.Tree) error {
	var walk func(nodes []*folder.Node, prefix string)
	walk = func(nodes []*folder.Node, prefix string) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			connector := "├── "
			if last {
				connector = "└── "
			}
			fmt.Fprintf(w, "%s%s%s (%d)  %s\n", prefix, connector, n.Name, n.NoteCount, ShortID(n.ID))

			next := prefix + "│   "
			if last {
				next = prefix + "    "
			}
			walk(n.Children, next)
		}
	}
	walk(t.Roots, "")

	for _, c := range t.Cycles {
		short := make([]string, len(c))
		for i, id := range c {
			short[i] = ShortID(id)
		}
		fmt.Fprintf(w, "warning: folder cycle %s shown at top level\n", strings.Join(short, " -> "))
	}
	return nil
}

// History prints search history newest first.
func History(w io.Writer, entries []store.HistoryEntry) error {
	for _, e := range entries {
		t := time.Unix(e.CreatedAt, 0)
		fmt.Fprintf(w, "%s  %4d  %q\n", t.Format("2006-01-02 15:04"), e.ResultsCount, e.Query)
	}
	return nil
}

// Plugins prints installed plugins.
func Plugins(w io.Writer, plugins []store.Plugin) error {
	for _, p := range plugins {
		state := "disabled"
		if p.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(w, "%s  %s  %s", p.Name, p.Version, state)
		if len(p.Manifest.Permissions) > 0 {
			fmt.Fprintf(w, "  [%s]", strings.Join(p.Manifest.Permissions, ","))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// Privacy prints privacy settings as key: value lines.
func Privacy(w io.Writer, p store.Privacy) error {
	fmt.Fprintf(w, "ai_features_enabled: %t\n", p.AIFeatures)
	fmt.Fprintf(w, "data_sharing_enabled: %t\n", p.DataSharing)
	fmt.Fprintf(w, "analytics_enabled: %t\n", p.Analytics)
	fmt.Fprintf(w, "encryption_enabled: %t\n", p.Encryption)
	return nil
}
