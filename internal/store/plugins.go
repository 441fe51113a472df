// plugins.go persists installed plugin records.
//
// Design: A plugin is only its manifest. Nothing here loads or runs code;
// enabling a plugin flips a flag that other components may consult.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const pluginColumns = `id, user_id, name, version, description, manifest, enabled, installed_at, updated_at`

func scanPlugin(sc scanner) (Plugin, error) {
	var p Plugin
	var manifest string
	var enabled int
	if err := sc.Scan(&p.ID, &p.UserID, &p.Name, &p.Version, &p.Description,
		&manifest, &enabled, &p.InstalledAt, &p.UpdatedAt); err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(manifest), &p.Manifest); err != nil {
		return p, fmt.Errorf("decode manifest of %s: %w", p.Name, err)
	}
	p.Enabled = enabled != 0
	return p, nil
}

// InstallPlugin records a plugin. Returns ErrAlreadyExists when the user
// already has a plugin with the same name.
func (s *SQLiteStore) InstallPlugin(ctx context.Context, userID string, p Plugin) (*Plugin, error) {
	manifest, err := json.Marshal(p.Manifest)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	now := s.unix()
	p.ID = newID()
	p.UserID = userID
	p.InstalledAt = now
	p.UpdatedAt = now

	err = s.Tx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM plugins WHERE user_id = ? AND name = ?`,
			userID, p.Name).Scan(&one)
		if err == nil {
			return ErrAlreadyExists
		}
		if err != sql.ErrNoRows {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO plugins (`+pluginColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, userID, p.Name, p.Version, p.Description, string(manifest),
			boolInt(p.Enabled), now, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("install plugin %s: %w", p.Name, err)
	}
	return &p, nil
}

// ListPlugins returns the user's plugins ordered by name.
func (s *SQLiteStore) ListPlugins(ctx context.Context, userID string) ([]Plugin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pluginColumns+`
		FROM plugins WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list plugins: %w", err)
	}
	defer rows.Close()

	var out []Plugin
	for rows.Next() {
		p, err := scanPlugin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetPluginEnabled toggles a plugin by name.
func (s *SQLiteStore) SetPluginEnabled(ctx context.Context, userID, name string, enabled bool) (*Plugin, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE plugins SET enabled = ?, updated_at = ?
		WHERE user_id = ? AND name = ?`, boolInt(enabled), s.unix(), userID, name)
	if err != nil {
		return nil, fmt.Errorf("update plugin %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("plugin %s: %w", name, ErrNotFound)
	}

	p, err := scanPlugin(s.db.QueryRowContext(ctx, `SELECT `+pluginColumns+`
		FROM plugins WHERE user_id = ? AND name = ?`, userID, name))
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", name, notFound(err))
	}
	return &p, nil
}

// RemovePlugin deletes a plugin record by name.
func (s *SQLiteStore) RemovePlugin(ctx context.Context, userID, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plugins WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return fmt.Errorf("remove plugin %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("remove plugin %s: %w", name, ErrNotFound)
	}
	return nil
}
