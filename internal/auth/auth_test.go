package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	id, err := Static("alice").Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.UserID)

	_, err = Static("  ").Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	ctx := WithIdentity(context.Background(), Identity{UserID: "alice"})
	id, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.UserID)
}

func TestJWT_RoundTrip(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)

	tok, err := j.Mint("alice", time.Hour)
	require.NoError(t, err)

	id, err := j.Resolve(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.UserID)
}

func TestJWT_Rejects(t *testing.T) {
	j, err := NewJWT("secret")
	require.NoError(t, err)
	other, err := NewJWT("different")
	require.NoError(t, err)

	wrongKey, err := other.Mint("alice", time.Hour)
	require.NoError(t, err)

	expired, err := j.Mint("alice", -time.Minute)
	require.NoError(t, err)

	noIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
		Issuer:  Issuer,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, cred := range map[string]string{
		"empty":      "",
		"garbage":    "Bearer not.a.token",
		"wrong key":  wrongKey,
		"expired":    expired,
		"no issuer":  noIssuer,
		"no expiry":  noExpiry,
		"no subject": noSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := j.Resolve(context.Background(), cred)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestNewJWT_EmptySecret(t *testing.T) {
	_, err := NewJWT("")
	assert.Error(t, err)
}
