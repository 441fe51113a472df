package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/ai"
)

var errDenied = errors.New("denied")

type gate struct{ allow bool }

func (g gate) RequireAI(ctx context.Context, userID string) error {
	if g.allow {
		return nil
	}
	return errDenied
}

type echo struct{ calls int }

func (e *echo) Run(ctx context.Context, action ai.Action, text string) (string, error) {
	e.calls++
	return string(action) + ":" + text, nil
}

func TestGuarded(t *testing.T) {
	ctx := context.Background()

	e := &echo{}
	_, err := ai.NewGuarded(gate{allow: false}, e).Run(ctx, "u", ai.Summarize, "x")
	assert.ErrorIs(t, err, errDenied)
	assert.Zero(t, e.calls, "assistant must not run without consent")

	_, err = ai.NewGuarded(gate{allow: true}, nil).Run(ctx, "u", ai.Summarize, "x")
	assert.ErrorIs(t, err, ai.ErrNoAssistant)

	out, err := ai.NewGuarded(gate{allow: true}, e).Run(ctx, "u", ai.Research, "go")
	require.NoError(t, err)
	assert.Equal(t, "research:go", out)
}

func TestParseAction(t *testing.T) {
	a, err := ai.ParseAction(" Summarize ")
	require.NoError(t, err)
	assert.Equal(t, ai.Summarize, a)

	_, err = ai.ParseAction("translate")
	assert.ErrorIs(t, err, ai.ErrUnknownAction)
}
