// Package ai defines the assisted actions a note can be sent to and the
// guard that keeps them behind the user's privacy consent.
//
// No model client ships with kbase. Deployments plug one in by implementing
// Assistant; until then every action reports ErrNoAssistant.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Action is an assisted operation on note text.
type Action string

const (
	Summarize     Action = "summarize"
	GenerateIdeas Action = "generate-ideas"
	Research      Action = "research"
)

// Actions lists every supported action.
func Actions() []Action {
	return []Action{Summarize, GenerateIdeas, Research}
}

var (
	// ErrUnknownAction is returned for an action name not in Actions.
	ErrUnknownAction = errors.New("unknown AI action")
	// ErrNoAssistant is returned when no Assistant is configured.
	ErrNoAssistant = errors.New("no AI assistant configured")
)

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Actions() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Assistant performs an action on text.
type Assistant interface {
	Run(ctx context.Context, action Action, text string) (string, error)
}

// Gate is checked before any action runs. privacy.Gate satisfies it.
type Gate interface {
	RequireAI(ctx context.Context, userID string) error
}

// Guarded runs actions only for users whose gate allows it.
type Guarded struct {
	gate Gate
	next Assistant // may be nil
}

// NewGuarded wraps next with gate. next may be nil.
func NewGuarded(gate Gate, next Assistant) *Guarded {
	return &Guarded{gate: gate, next: next}
}

// Run checks the gate for userID, then delegates. The gate is checked
// before the assistant's presence so a disabled user always sees the
// privacy error.
func (g *Guarded) Run(ctx context.Context, userID string, action Action, text string) (string, error) {
	if err := g.gate.RequireAI(ctx, userID); err != nil {
		return "", err
	}
	if g.next == nil {
		return "", ErrNoAssistant
	}
	return g.next.Run(ctx, action, text)
}
