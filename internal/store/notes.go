// notes.go implements note CRUD and filtered listing.
//
// Separated from search.go because listings use exact column filters and a
// fixed recency order, while search goes through the FTS5 index and bm25.
//
// Design: Notes are hard-deleted. The FTS5 index is maintained by triggers
// (see sql/002_notes_fts.sql), so nothing here touches notes_fts directly.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jpl-au/kbase/internal/validate"
)

// Note returns a single note owned by userID.
func (s *SQLiteStore) Note(ctx context.Context, userID, id string) (*Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+`
		FROM notes n WHERE n.user_id = ? AND n.id = ?`, userID, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", id, notFound(err))
	}
	return &n, nil
}

// ListNotes returns the user's notes matching opts, most recently updated first.
func (s *SQLiteStore) ListNotes(ctx context.Context, userID string, opts ListOptions) ([]Note, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + noteColumns + ` FROM notes n WHERE n.user_id = ?`)
	args := []any{userID}

	if opts.FolderID != nil {
		b.WriteString(` AND n.folder_id = ?`)
		args = append(args, *opts.FolderID)
	}
	if opts.Favorite != nil {
		b.WriteString(` AND n.is_favorite = ?`)
		args = append(args, boolInt(*opts.Favorite))
	}
	switch opts.Archived {
	case ArchivedExclude:
		b.WriteString(` AND n.is_archived = 0`)
	case ArchivedOnly:
		b.WriteString(` AND n.is_archived = 1`)
	}
	if opts.Tag != "" {
		// Array containment on the denormalised JSON column.
		b.WriteString(` AND EXISTS (SELECT 1 FROM json_each(n.tags) j WHERE j.value = ?)`)
		args = append(args, opts.Tag)
	}

	b.WriteString(` ORDER BY n.updated_at DESC, n.id`)

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	b.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, limit, max(opts.Offset, 0))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// CreateNote inserts a new note. A FolderID must reference one of the user's
// folders.
func (s *SQLiteStore) CreateNote(ctx context.Context, userID string, in NoteInput) (*Note, error) {
	if err := validate.Title(in.Title); err != nil {
		return nil, err
	}
	for _, t := range in.Tags {
		if err := validate.Tag(t); err != nil {
			return nil, err
		}
	}

	tags, err := encodeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	now := s.unix()
	n := &Note{
		ID:        newID(),
		UserID:    userID,
		Title:     in.Title,
		Body:      in.Body,
		Tags:      in.Tags,
		FolderID:  in.FolderID,
		Favorite:  in.Favorite,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.Tx(ctx, func(tx *sql.Tx) error {
		if err := ownsFolder(ctx, tx, userID, in.FolderID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (id, user_id, title, body, tags, folder_id, is_favorite, is_archived, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
			n.ID, userID, n.Title, n.Body, tags, nullString(n.FolderID), boolInt(n.Favorite), now, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// UpdateNote applies a partial update and refreshes updated_at.
func (s *SQLiteStore) UpdateNote(ctx context.Context, userID, id string, p NotePatch) (*Note, error) {
	if p.Title != nil {
		if err := validate.Title(*p.Title); err != nil {
			return nil, err
		}
	}
	if p.Tags != nil {
		for _, t := range *p.Tags {
			if err := validate.Tag(t); err != nil {
				return nil, err
			}
		}
	}

	var out *Note
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		n, err := scanNote(tx.QueryRowContext(ctx, `SELECT `+noteColumns+`
			FROM notes n WHERE n.user_id = ? AND n.id = ?`, userID, id))
		if err != nil {
			return notFound(err)
		}

		if p.Title != nil {
			n.Title = *p.Title
		}
		if p.Body != nil {
			n.Body = *p.Body
		}
		if p.Tags != nil {
			n.Tags = *p.Tags
		}
		switch {
		case p.ClearFolder:
			n.FolderID = nil
		case p.FolderID != nil:
			if err := ownsFolder(ctx, tx, userID, p.FolderID); err != nil {
				return err
			}
			n.FolderID = p.FolderID
		}
		if p.Favorite != nil {
			n.Favorite = *p.Favorite
		}
		if p.Archived != nil {
			n.Archived = *p.Archived
		}

		tags, err := encodeTags(n.Tags)
		if err != nil {
			return err
		}
		n.UpdatedAt = s.unix()

		_, err = tx.ExecContext(ctx, `
			UPDATE notes SET title = ?, body = ?, tags = ?, folder_id = ?,
				is_favorite = ?, is_archived = ?, updated_at = ?
			WHERE user_id = ? AND id = ?`,
			n.Title, n.Body, tags, nullString(n.FolderID),
			boolInt(n.Favorite), boolInt(n.Archived), n.UpdatedAt, userID, id)
		if err != nil {
			return err
		}
		out = &n
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return out, nil
}

// DeleteNote removes a note and its registry memberships in one transaction.
func (s *SQLiteStore) DeleteNote(ctx context.Context, userID, id string) error {
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE user_id = ? AND id = ?`, userID, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// ownsFolder returns ErrNotFound unless folderID is nil or one of the user's
// folders.
func ownsFolder(ctx context.Context, tx *sql.Tx, userID string, folderID *string) error {
	if folderID == nil {
		return nil
	}
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM folders WHERE user_id = ? AND id = ?`,
		userID, *folderID).Scan(&one)
	if err != nil {
		return fmt.Errorf("folder %s: %w", *folderID, notFound(err))
	}
	return nil
}
