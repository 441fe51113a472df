// profiles.go persists per-user settings.

package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Profile returns the user's stored settings.
func (s *SQLiteStore) Profile(ctx context.Context, userID string) (*Profile, error) {
	var raw string
	p := &Profile{UserID: userID}
	err := s.db.QueryRowContext(ctx, `SELECT privacy_settings, updated_at FROM profiles WHERE user_id = ?`,
		userID).Scan(&raw, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, notFound(err))
	}
	if err := json.Unmarshal([]byte(raw), &p.Privacy); err != nil {
		return nil, fmt.Errorf("decode privacy settings of %s: %w", userID, err)
	}
	return p, nil
}

// SavePrivacy replaces the user's privacy settings, creating the profile row
// on first use.
func (s *SQLiteStore) SavePrivacy(ctx context.Context, userID string, p Privacy) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode privacy settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO profiles (user_id, privacy_settings, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET privacy_settings = excluded.privacy_settings,
			updated_at = excluded.updated_at`, userID, string(raw), s.unix())
	if err != nil {
		return fmt.Errorf("save privacy settings of %s: %w", userID, err)
	}
	return nil
}
