// tags.go implements the tag registry and explicit note membership.
//
// Separated from notes.go because registry tags have their own lifecycle:
// they can exist with no notes, carry a colour, and be linked to notes
// independently of the tag array stored on each note row.
//
// Design: The registry and the per-note arrays are deliberately not kept in
// sync here. Reconciliation of the two views happens in internal/tag.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpl-au/kbase/internal/validate"
)

const tagColumns = `t.id, t.user_id, t.name, t.color, t.created_at`

func scanTag(sc scanner) (Tag, error) {
	var t Tag
	err := sc.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt)
	return t, err
}

// ListTags returns the user's registry tags, newest first. Ties on
// created_at fall back to name so the order is deterministic.
func (s *SQLiteStore) ListTags(ctx context.Context, userID string) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+`
		FROM tags t WHERE t.user_id = ?
		ORDER BY t.created_at DESC, t.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTagLinks returns membership rows where both the tag and the note
// belong to the user.
func (s *SQLiteStore) ListTagLinks(ctx context.Context, userID string) ([]TagLink, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT nt.tag_id, nt.note_id
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		JOIN notes n ON n.id = nt.note_id
		WHERE t.user_id = ? AND n.user_id = ?
		ORDER BY nt.tag_id, nt.note_id`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list tag links: %w", err)
	}
	defer rows.Close()

	var out []TagLink
	for rows.Next() {
		var l TagLink
		if err := rows.Scan(&l.TagID, &l.NoteID); err != nil {
			return nil, fmt.Errorf("scan tag link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// TagByName looks up a registry tag by exact name.
func (s *SQLiteStore) TagByName(ctx context.Context, userID, name string) (*Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+`
		FROM tags t WHERE t.user_id = ? AND t.name = ?`, userID, name))
	if err != nil {
		return nil, fmt.Errorf("tag %q: %w", name, notFound(err))
	}
	return &t, nil
}

// CreateTag adds a registry entry.
func (s *SQLiteStore) CreateTag(ctx context.Context, userID, name, color string) (*Tag, error) {
	if err := validate.Tag(name); err != nil {
		return nil, err
	}
	if err := validate.Color(color); err != nil {
		return nil, err
	}

	t := &Tag{ID: newID(), UserID: userID, Name: name, Color: color, CreatedAt: s.unix()}
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tags WHERE user_id = ? AND name = ?`,
			userID, name).Scan(&one)
		if err == nil {
			return ErrAlreadyExists
		}
		if err != sql.ErrNoRows {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO tags (id, user_id, name, color, created_at)
			VALUES (?, ?, ?, ?, ?)`, t.ID, userID, t.Name, t.Color, t.CreatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create tag %q: %w", name, err)
	}
	return t, nil
}

// DeleteTag removes a registry tag and its memberships. Note tag arrays are
// left alone, so the name may still surface as an unregistered tag.
func (s *SQLiteStore) DeleteTag(ctx context.Context, userID, id string) error {
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE user_id = ? AND id = ?`, userID, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM note_tags WHERE tag_id = ?`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete tag %s: %w", id, err)
	}
	return nil
}

// LinkTag records that a note is a member of a registry tag. Linking twice
// is a no-op. Both sides must belong to the user.
func (s *SQLiteStore) LinkTag(ctx context.Context, userID, tagID, noteID string) error {
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if err := owns(ctx, tx, "tags", userID, tagID); err != nil {
			return err
		}
		if err := owns(ctx, tx, "notes", userID, noteID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO note_tags (tag_id, note_id, created_at)
			VALUES (?, ?, ?)`, tagID, noteID, s.unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("link tag %s to %s: %w", tagID, noteID, err)
	}
	return nil
}

// UnlinkTag removes a membership row. Returns ErrNotFound if none existed.
func (s *SQLiteStore) UnlinkTag(ctx context.Context, userID, tagID, noteID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM note_tags
		WHERE tag_id = ? AND note_id = ?
		AND tag_id IN (SELECT id FROM tags WHERE user_id = ?)`, tagID, noteID, userID)
	if err != nil {
		return fmt.Errorf("unlink tag %s from %s: %w", tagID, noteID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unlink tag %s from %s: %w", tagID, noteID, ErrNotFound)
	}
	return nil
}

// owns returns ErrNotFound unless table has a row with id owned by userID.
// table is always a literal from this package.
func owns(ctx context.Context, tx *sql.Tx, table, userID, id string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE user_id = ? AND id = ?`,
		userID, id).Scan(&one)
	if err != nil {
		return fmt.Errorf("%s %s: %w", table[:len(table)-1], id, notFound(err))
	}
	return nil
}
