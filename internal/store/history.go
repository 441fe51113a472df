// history.go implements the append-only search history.
//
// Design: Rows are never updated or deleted by the application. Writes come
// from the asynchronous recorder in internal/search and must not block a
// search response, so this file does no validation beyond what SQLite does.

package store

import (
	"context"
	"fmt"
)

// AppendHistory inserts one history row. Empty ID and CreatedAt are filled in.
func (s *SQLiteStore) AppendHistory(ctx context.Context, e HistoryEntry) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = s.unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO search_history (id, user_id, query, results_count, created_at)
		VALUES (?, ?, ?, ?, ?)`, e.ID, e.UserID, e.Query, e.ResultsCount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// ListHistory returns the user's most recent searches first.
func (s *SQLiteStore) ListHistory(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, query, results_count, created_at
		FROM search_history WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.ResultsCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
