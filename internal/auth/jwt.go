package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is set on minted tokens and required on verified ones.
const Issuer = "kbase"

// DefaultTokenTTL is the lifetime of tokens minted by `kbase token`.
const DefaultTokenTTL = 24 * time.Hour

// JWT verifies HS256 bearer tokens.
type JWT struct {
	secret []byte
	now    func() time.Time
}

// NewJWT creates a verifier. An empty secret is an error: the HTTP API must
// not start with a guessable key.
func NewJWT(secret string) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty (set server.jwt_secret or KBASE_JWT_SECRET)")
	}
	return &JWT{secret: []byte(secret), now: time.Now}, nil
}

// Resolve implements Resolver. credential may carry a "Bearer " prefix.
func (j *JWT) Resolve(ctx context.Context, credential string) (Identity, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(credential, "Bearer "))
	if raw == "" {
		return Identity{}, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return Identity{UserID: claims.Subject}, nil
}

// Mint signs a token for userID valid for ttl.
func (j *JWT) Mint(userID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: empty user id", ErrUnauthorized)
	}
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}
