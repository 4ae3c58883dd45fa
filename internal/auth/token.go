// Package auth issues and validates the bearer tokens guarding the API,
// and enforces the per-identity request ceiling.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNoSigningKey indicates token issuance was attempted without a
// configured signing secret. Fatal for that call only.
var ErrNoSigningKey = errors.New("jwt signing key not configured")

// TokenService issues signed, time-limited identity tokens. It performs
// no credential checking; the boundary authenticates callers before
// invoking Issue.
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	expiry   time.Duration
}

// NewTokenService builds a token service signing HS256 tokens with the
// given secret. expiryMinutes of zero or less falls back to 60.
func NewTokenService(key, issuer, audience string, expiryMinutes int) *TokenService {
	if expiryMinutes <= 0 {
		expiryMinutes = 60
	}
	return &TokenService{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		expiry:   time.Duration(expiryMinutes) * time.Minute,
	}
}

// Issue returns a signed token for username, carrying subject, a jti
// nonce and an expiry of issue-time plus the configured duration.
func (t *TokenService) Issue(username string) (string, error) {
	if len(t.key) == 0 {
		return "", ErrNoSigningKey
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    t.issuer,
		Audience:  jwt.ClaimStrings{t.audience},
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a bearer token and returns its subject. Signature,
// issuer, audience and lifetime must all check out.
func (t *TokenService) Validate(raw string) (string, error) {
	if len(t.key) == 0 {
		return "", ErrNoSigningKey
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.key, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
