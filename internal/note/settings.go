// settings.go implements privacy settings, the AI action gate and plugin
// records for the Service layer.

package note

import (
	"context"
	"fmt"

	"github.com/jpl-au/kbase/internal/ai"
	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/plugin"
	"github.com/jpl-au/kbase/internal/store"
)

// Privacy returns the user's privacy settings.
func (s *Service) Privacy(ctx context.Context, userID string) (store.Privacy, error) {
	return s.gate.Settings(ctx, userID)
}

// SetPrivacy replaces the user's privacy settings.
func (s *Service) SetPrivacy(ctx context.Context, userID string, p store.Privacy) error {
	err := s.store.SavePrivacy(ctx, userID, p)
	log.Event("privacy:set", "save").User(userID).
		Detail("ai_features_enabled", p.AIFeatures).Write(err)
	return err
}

// Assist runs action on the note's title and body. The privacy gate is
// checked before the note is read.
func (s *Service) Assist(ctx context.Context, userID string, action ai.Action, noteID string) (string, error) {
	if err := s.gate.RequireAI(ctx, userID); err != nil {
		return "", err
	}
	n, err := s.store.Note(ctx, userID, noteID)
	if err != nil {
		return "", err
	}
	out, err := s.ai.Run(ctx, userID, action, n.Title+"\n\n"+n.Body)
	log.Event("ai:"+string(action), "run").User(userID).Target(noteID).Write(err)
	return out, err
}

// InstallPlugin records a plugin from its manifest.
func (s *Service) InstallPlugin(ctx context.Context, userID string, m *plugin.Manifest, enabled bool) (*store.Plugin, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	rec := m.Record()
	rec.Enabled = enabled
	p, err := s.store.InstallPlugin(ctx, userID, rec)
	log.Event("plugin:install", "install").User(userID).Target(m.Name).
		Detail("version", m.Version).Write(err)
	if err != nil {
		return nil, fmt.Errorf("install plugin %s: %w", m.Name, err)
	}
	return p, nil
}

// Plugins lists installed plugins.
func (s *Service) Plugins(ctx context.Context, userID string) ([]store.Plugin, error) {
	return s.store.ListPlugins(ctx, userID)
}

// SetPluginEnabled toggles a plugin.
func (s *Service) SetPluginEnabled(ctx context.Context, userID, name string, enabled bool) (*store.Plugin, error) {
	p, err := s.store.SetPluginEnabled(ctx, userID, name, enabled)
	log.Event("plugin:toggle", "toggle").User(userID).Target(name).
		Detail("enabled", enabled).Write(err)
	return p, err
}

// RemovePlugin uninstalls a plugin.
func (s *Service) RemovePlugin(ctx context.Context, userID, name string) error {
	err := s.store.RemovePlugin(ctx, userID, name)
	log.Event("plugin:remove", "remove").User(userID).Target(name).Write(err)
	return err
}
