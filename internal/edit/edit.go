// Package edit applies in-place text edits to note bodies.
//
// Two forms are supported: search/replace of the first occurrence of a
// string, and replacement of a 1-indexed line range. The CLI and MCP tools
// use whichever the caller asked for; the note service applies the result as
// an ordinary body update.
package edit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jpl-au/kbase/internal/diff"
	"github.com/jpl-au/kbase/internal/store"
)

var (
	// ErrTextNotFound is returned when search text is not in the body.
	ErrTextNotFound = errors.New("text not found")
	// ErrInvalidLineRange is returned when a line range is malformed.
	ErrInvalidLineRange = errors.New("invalid line range")
	// ErrNoEdit is returned when Options asks for neither form of edit.
	ErrNoEdit = errors.New("nothing to edit (give --old or --lines)")
)

// Options describes one edit. When Lines is set the line range is replaced
// with New; otherwise the first occurrence of Old is.
type Options struct {
	Old             string // Text to find
	New             string // Replacement text
	CaseInsensitive bool   // Case-insensitive matching of Old
	Lines           string // Line range "start:end", see ParseLineRange
}

// Apply returns body with the edit applied.
func Apply(body string, opts Options) (string, error) {
	if opts.Lines != "" {
		start, end, err := ParseLineRange(opts.Lines)
		if err != nil {
			return "", err
		}
		return ReplaceLines(body, start, end, opts.New)
	}
	if opts.Old == "" {
		return "", ErrNoEdit
	}
	return Replace(body, opts.Old, opts.New, opts.CaseInsensitive)
}

// Editor is the service surface Run needs.
type Editor interface {
	EditNote(ctx context.Context, userID, id string, opts Options) (before, after *store.Note, err error)
}

// Result contains the outcome of an edit.
type Result struct {
	ID   string `json:"id"`
	Diff string `json:"diff,omitempty"`
}

// Run edits a note and reports it to w. With showDiff the body change is
// printed (coloured when colour is set) and returned in Result.Diff.
func Run(ctx context.Context, w io.Writer, svc Editor, userID, id string, opts Options, showDiff, colour bool) (Result, error) {
	r := Result{ID: id}

	before, after, err := svc.EditNote(ctx, userID, id, opts)
	if err != nil {
		return r, err
	}

	if showDiff {
		d := diff.Compute(before.Body, after.Body, "before", "after")
		r.Diff = d.Diff
		fmt.Fprint(w, d.Format(colour))
		return r, nil
	}
	fmt.Fprintf(w, "Edited %s\n", id)
	return r, nil
}

// Replace replaces the first occurrence of old in content. With
// caseInsensitive, matching ignores case but newStr is inserted as given.
func Replace(content, old, newStr string, caseInsensitive bool) (string, error) {
	if caseInsensitive {
		idx := strings.Index(strings.ToLower(content), strings.ToLower(old))
		if idx == -1 {
			return "", fmt.Errorf("%w: %q", ErrTextNotFound, old)
		}
		return content[:idx] + newStr + content[idx+len(old):], nil
	}

	if !strings.Contains(content, old) {
		return "", fmt.Errorf("%w: %q", ErrTextNotFound, old)
	}
	return strings.Replace(content, old, newStr, 1), nil
}

// ReplaceLines replaces lines start..end (1-indexed, inclusive).
// A start of 0 means line 1 and an end of 0 means the last line. An end past
// the last line is clamped; a start past it is an error.
func ReplaceLines(content string, start, end int, replacement string) (string, error) {
	lines := strings.Split(content, "\n")

	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = len(lines)
	}
	if end < start {
		return "", fmt.Errorf("%w: end line %d before start line %d", ErrInvalidLineRange, end, start)
	}
	if start > len(lines) {
		return "", fmt.Errorf("%w: start line %d exceeds body length %d", ErrInvalidLineRange, start, len(lines))
	}
	end = min(end, len(lines))

	out := append([]string{}, lines[:start-1]...)
	if replacement = strings.TrimSuffix(replacement, "\n"); replacement != "" {
		out = append(out, strings.Split(replacement, "\n")...)
	}
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), nil
}

// ParseLineRange parses "5:10", "5:" or ":10". Unspecified ends are 0.
func ParseLineRange(s string) (start, end int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q (expected start:end)", ErrInvalidLineRange, s)
	}
	if parts[0] == "" && parts[1] == "" {
		return 0, 0, fmt.Errorf("%w: %q (at least start or end line required)", ErrInvalidLineRange, s)
	}

	if parts[0] != "" {
		if start, err = strconv.Atoi(parts[0]); err != nil {
			return 0, 0, fmt.Errorf("%w: invalid start line %q", ErrInvalidLineRange, parts[0])
		}
		if start < 1 {
			return 0, 0, fmt.Errorf("%w: start line must be >= 1, got %d", ErrInvalidLineRange, start)
		}
	}
	if parts[1] != "" {
		if end, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("%w: invalid end line %q", ErrInvalidLineRange, parts[1])
		}
		if end < 1 {
			return 0, 0, fmt.Errorf("%w: end line must be >= 1, got %d", ErrInvalidLineRange, end)
		}
	}
	if start > 0 && end > 0 && start > end {
		return 0, 0, fmt.Errorf("%w: start line %d is greater than end line %d", ErrInvalidLineRange, start, end)
	}
	return start, end, nil
}
