// folders.go implements folder persistence.
//
// Separated from notes.go because folders carry their own hierarchy
// (parent_id) and aggregate note counts for navigation views.
//
// Design: The store does not walk the parent graph. Cycle prevention on
// re-parenting lives in the note service, and tree construction tolerates
// whatever is stored.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpl-au/kbase/internal/validate"
)

const folderColumns = `f.id, f.user_id, f.name, f.parent_id, f.color, f.description, f.created_at, f.updated_at`

func scanFolder(sc scanner, extra ...any) (Folder, error) {
	var f Folder
	var parent sql.NullString
	dest := []any{&f.ID, &f.UserID, &f.Name, &parent, &f.Color, &f.Description, &f.CreatedAt, &f.UpdatedAt}
	dest = append(dest, extra...)
	if err := sc.Scan(dest...); err != nil {
		return f, err
	}
	if parent.Valid {
		p := parent.String
		f.ParentID = &p
	}
	return f, nil
}

// Folder returns one of the user's folders.
func (s *SQLiteStore) Folder(ctx context.Context, userID, id string) (*Folder, error) {
	f, err := scanFolder(s.db.QueryRowContext(ctx, `SELECT `+folderColumns+`
		FROM folders f WHERE f.user_id = ? AND f.id = ?`, userID, id))
	if err != nil {
		return nil, fmt.Errorf("folder %s: %w", id, notFound(err))
	}
	return &f, nil
}

// ListFolders returns the user's folders, newest first.
func (s *SQLiteStore) ListFolders(ctx context.Context, userID string) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+folderColumns+`
		FROM folders f WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListFoldersWithCounts returns the user's folders, newest first, each with
// the number of notes filed directly in it.
func (s *SQLiteStore) ListFoldersWithCounts(ctx context.Context, userID string) ([]FolderCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+folderColumns+`,
			(SELECT COUNT(*) FROM notes n WHERE n.user_id = f.user_id AND n.folder_id = f.id)
		FROM folders f WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var out []FolderCount
	for rows.Next() {
		var fc FolderCount
		f, err := scanFolder(rows, &fc.NoteCount)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		fc.Folder = f
		out = append(out, fc)
	}
	return out, rows.Err()
}

// CreateFolder inserts a folder. A ParentID must reference one of the user's
// folders.
func (s *SQLiteStore) CreateFolder(ctx context.Context, userID string, in FolderInput) (*Folder, error) {
	if err := validate.FolderName(in.Name); err != nil {
		return nil, err
	}
	if err := validate.Color(in.Color); err != nil {
		return nil, err
	}

	now := s.unix()
	f := &Folder{
		ID:          newID(),
		UserID:      userID,
		Name:        in.Name,
		ParentID:    in.ParentID,
		Color:       in.Color,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.Tx(ctx, func(tx *sql.Tx) error {
		if err := ownsFolder(ctx, tx, userID, in.ParentID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO folders (id, user_id, name, parent_id, color, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, userID, f.Name, nullString(f.ParentID), f.Color, f.Description, now, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

// UpdateFolder applies a partial update and refreshes updated_at.
func (s *SQLiteStore) UpdateFolder(ctx context.Context, userID, id string, p FolderPatch) (*Folder, error) {
	if p.Name != nil {
		if err := validate.FolderName(*p.Name); err != nil {
			return nil, err
		}
	}
	if p.Color != nil {
		if err := validate.Color(*p.Color); err != nil {
			return nil, err
		}
	}

	var out *Folder
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		f, err := scanFolder(tx.QueryRowContext(ctx, `SELECT `+folderColumns+`
			FROM folders f WHERE f.user_id = ? AND f.id = ?`, userID, id))
		if err != nil {
			return notFound(err)
		}

		if p.Name != nil {
			f.Name = *p.Name
		}
		if p.Color != nil {
			f.Color = *p.Color
		}
		if p.Description != nil {
			f.Description = *p.Description
		}
		switch {
		case p.ClearParent:
			f.ParentID = nil
		case p.ParentID != nil:
			if err := ownsFolder(ctx, tx, userID, p.ParentID); err != nil {
				return err
			}
			f.ParentID = p.ParentID
		}
		f.UpdatedAt = s.unix()

		_, err = tx.ExecContext(ctx, `
			UPDATE folders SET name = ?, parent_id = ?, color = ?, description = ?, updated_at = ?
			WHERE user_id = ? AND id = ?`,
			f.Name, nullString(f.ParentID), f.Color, f.Description, f.UpdatedAt, userID, id)
		if err != nil {
			return err
		}
		out = &f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update folder %s: %w", id, err)
	}
	return out, nil
}

// DeleteFolder removes a folder row. Callers check FolderUsage first; the
// store itself does not refuse non-empty folders.
func (s *SQLiteStore) DeleteFolder(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete folder %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete folder %s: %w", id, ErrNotFound)
	}
	return nil
}

// FolderUsage counts direct subfolders and notes referencing a folder.
func (s *SQLiteStore) FolderUsage(ctx context.Context, userID, id string) (children, notes int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM folders WHERE user_id = ? AND parent_id = ?),
			(SELECT COUNT(*) FROM notes WHERE user_id = ? AND folder_id = ?)`,
		userID, id, userID, id).Scan(&children, &notes)
	if err != nil {
		return 0, 0, fmt.Errorf("folder usage %s: %w", id, err)
	}
	return children, notes, nil
}
