// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/danielhkuo/ballot-box/models"
)

const (
	MinTokenSecretLength = 32
	roleClaim            = "role"
)

// Claims is what a verified bearer token asserts
type Claims struct {
	IdentityID string
	Role       models.Role
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// TokenService issues and verifies stateless HS256 bearer tokens.
// The signing key is fixed at construction and only read afterwards.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinTokenSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinTokenSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	s := &TokenService{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for identityID carrying role
func (s *TokenService) Issue(identityID string, role models.Role) (string, Claims, error) {
	if identityID == "" || !role.Valid() {
		return "", Claims{}, errors.New("token needs an identity and a valid role")
	}

	// JWT dates are whole seconds
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	tok, err := jwt.NewBuilder().
		Subject(identityID).
		IssuedAt(issuedAt).
		Expiration(expiresAt).
		Claim(roleClaim, string(role)).
		Build()
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.key))
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return string(signed), Claims{
		IdentityID: identityID,
		Role:       role,
		IssuedAt:   issuedAt,
		ExpiresAt:  expiresAt,
	}, nil
}

// Verify checks signature, structure and expiry. Every failure is
// ErrInvalidToken so callers cannot tell which check failed.
func (s *TokenService) Verify(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, s.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	if tok.Subject() == "" || tok.Expiration().IsZero() {
		return Claims{}, ErrInvalidToken
	}

	raw, ok := tok.Get(roleClaim)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	roleStr, ok := raw.(string)
	if !ok || !models.Role(roleStr).Valid() {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		IdentityID: tok.Subject(),
		Role:       models.Role(roleStr),
		IssuedAt:   tok.IssuedAt(),
		ExpiresAt:  tok.Expiration(),
	}, nil
}
