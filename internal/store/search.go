// search.go implements full-text search using SQLite's FTS5 extension and the
// membership lookups the search pipeline intersects with.
//
// Separated from notes.go because FTS5 has fundamentally different query
// semantics: tokenised matching ranked by bm25 rather than exact filters.
//
// Design: User input is never passed to MATCH verbatim. Each whitespace
// separated term is quoted so punctuation cannot be parsed as FTS5 syntax,
// and the terms are implicitly ANDed. Hits come back ordered by bm25 but the
// final order is decided by the caller's ranker.

package store

import (
	"context"
	"fmt"
	"strings"
)

// bm25 column weights for (title, body, tags).
const rankExpr = `bm25(notes_fts, 10.0, 1.0, 5.0)`

// MatchQuery converts free text into a safe FTS5 MATCH expression. Returns
// an empty string when the input has no terms.
func MatchQuery(text string) string {
	terms := strings.Fields(text)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Search runs a full-text query over the user's notes.
func (s *SQLiteStore) Search(ctx context.Context, userID, query string, limit int) ([]Hit, error) {
	match := MatchQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+noteColumns+`, `+rankExpr+` AS score
		FROM notes_fts
		JOIN notes n ON n.seq = notes_fts.rowid
		WHERE notes_fts MATCH ? AND n.user_id = ?
		ORDER BY score
		LIMIT ?`, match, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		n, err := scanNote(rows, &h.Score)
		if err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		h.Note = n
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// FolderNoteIDs returns ids of the user's notes filed directly in folderID.
func (s *SQLiteStore) FolderNoteIDs(ctx context.Context, userID, folderID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM notes WHERE user_id = ? AND folder_id = ?`, userID, folderID)
	if err != nil {
		return nil, fmt.Errorf("folder members %s: %w", folderID, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FavoriteNoteIDs returns ids of the user's favourite notes.
func (s *SQLiteStore) FavoriteNoteIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM notes WHERE user_id = ? AND is_favorite = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("favourites: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// TaggedNoteIDs returns ids of the user's notes linked through note_tags to
// any registry tag with one of the given names.
func (s *SQLiteStore) TaggedNoteIDs(ctx context.Context, userID string, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := []any{userID, userID}
	for _, n := range names {
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT nt.note_id
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		JOIN notes n ON n.id = nt.note_id
		WHERE t.user_id = ? AND n.user_id = ? AND t.name IN (`+placeholders(len(names))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("tag members: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}
