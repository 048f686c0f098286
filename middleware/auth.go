// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/models"
)

type contextKey struct{}

var identityKey contextKey

var errMissingToken = apperr.Authentication("missing bearer token")

// Authenticator resolves a bearer token to the current identity
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated identity in the request context
func RequireAuth(authn Authenticator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			WriteError(w, errMissingToken)
			return
		}

		identity, err := authn.Authenticate(r.Context(), token)
		if err != nil {
			WriteError(w, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	}
}

// RequireRole rejects authenticated requests whose identity lacks role.
// Must run inside RequireAuth.
func RequireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			WriteError(w, errMissingToken)
			return
		}
		if err := auth.RequireRole(identity, role); err != nil {
			WriteError(w, err)
			return
		}
		next(w, r)
	}
}

// IdentityFrom returns the identity stored by RequireAuth
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
