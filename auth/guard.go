// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"fmt"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/models"
)

// IdentityLookup loads the current state of an identity
type IdentityLookup interface {
	Get(ctx context.Context, id string) (models.Identity, error)
}

// Guard resolves bearer tokens to identities
type Guard struct {
	tokens     *TokenService
	identities IdentityLookup
}

func NewGuard(tokens *TokenService, identities IdentityLookup) *Guard {
	return &Guard{tokens: tokens, identities: identities}
}

// Authenticate verifies token and loads the identity it names, including
// its current role and voting state
func (g *Guard) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return models.Identity{}, err
	}

	identity, err := g.identities.Get(ctx, claims.IdentityID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return models.Identity{}, ErrInvalidToken
		}
		return models.Identity{}, fmt.Errorf("failed to load identity: %w", err)
	}

	// Roles are immutable, so a mismatch means the token was not ours
	if identity.Role != claims.Role {
		return models.Identity{}, ErrInvalidToken
	}

	return identity, nil
}

// RequireRole fails with an authorization error unless identity has role
func RequireRole(identity models.Identity, role models.Role) error {
	if identity.Role != role {
		return ErrForbidden
	}
	return nil
}
