// Package auth resolves the calling user.
//
// Every operation in kbase is scoped to a user id. The CLI and MCP server act
// as a single configured user (Static); the HTTP API authenticates each
// request with an HS256 bearer token whose subject is the user id (JWT).
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrUnauthorized means no valid caller identity could be established.
// Fatal to the request; never retried.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the authenticated caller.
type Identity struct {
	UserID string
}

// Resolver turns a credential into an Identity.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (Identity, error)
}

// Static resolves every credential to a fixed user. An empty user id is
// rejected so an unconfigured CLI fails instead of acting as "".
type Static string

// Resolve implements Resolver. The credential is ignored.
func (s Static) Resolve(ctx context.Context, credential string) (Identity, error) {
	id := strings.TrimSpace(string(s))
	if id == "" {
		return Identity{}, ErrUnauthorized
	}
	return Identity{UserID: id}, nil
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity, or
// ErrUnauthorized if there is none.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}
