// Package privacy reads per-user privacy settings and gates features on them.
//
// The gate fails closed: a user with no stored profile, a profile that
// cannot be read, or the flag switched off is treated as having AI features
// disabled.
package privacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jpl-au/kbase/internal/log"
	"github.com/jpl-au/kbase/internal/store"
)

// ErrAIDisabled is returned when an AI action is attempted without consent.
var ErrAIDisabled = errors.New("AI features are disabled in privacy settings")

// Code is the machine-readable error code for ErrAIDisabled.
const Code = "AI_FEATURES_DISABLED"

// Reader is the store surface the gate needs.
type Reader interface {
	Profile(ctx context.Context, userID string) (*store.Profile, error)
}

// Gate checks privacy flags before gated operations run.
type Gate struct {
	profiles Reader
}

// NewGate creates a gate reading from profiles.
func NewGate(profiles Reader) *Gate {
	return &Gate{profiles: profiles}
}

// Settings returns the user's privacy settings. A user who never saved any
// gets the zero value (everything off).
func (g *Gate) Settings(ctx context.Context, userID string) (store.Privacy, error) {
	p, err := g.profiles.Profile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Privacy{}, nil
	}
	if err != nil {
		return store.Privacy{}, err
	}
	return p.Privacy, nil
}

// RequireAI returns nil only when the user has explicitly enabled AI
// features. Any read failure is logged and reported as ErrAIDisabled.
func (g *Gate) RequireAI(ctx context.Context, userID string) error {
	s, err := g.Settings(ctx, userID)
	if err != nil {
		log.Event("privacy:gate", "read").User(userID).Write(err)
		return fmt.Errorf("%w: settings unreadable", ErrAIDisabled)
	}
	if !s.AIFeatures {
		return ErrAIDisabled
	}
	return nil
}
