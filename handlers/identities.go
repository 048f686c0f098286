// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/middleware"
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/store"
)

type IdentityHandler struct {
	creds  *store.Credentials
	tokens *auth.TokenService
}

func NewIdentityHandler(creds *store.Credentials, tokens *auth.TokenService) *IdentityHandler {
	return &IdentityHandler{creds: creds, tokens: tokens}
}

// Register handles POST /identities
// Creates a voter and signs them in
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	h.register(w, r, models.IdentityDraft{
		Name:          req.Name,
		Age:           req.Age,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Address:       req.Address,
		CredentialKey: req.CredentialKey,
		Password:      req.Password,
	})
}

func (h *IdentityHandler) register(w http.ResponseWriter, r *http.Request, draft models.IdentityDraft) {
	identity, err := h.creds.Create(r.Context(), draft)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	token, claims, err := h.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		middleware.WriteError(w, apperr.Internal(err))
		return
	}

	slog.Info("identity registered",
		"identity_id", identity.ID,
		"credential_key", auth.MaskCredentialKey(identity.CredentialKey),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Profile:   toProfile(identity),
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
	})
}

// Login handles POST /sessions
// Exchanges a credential key and password for a bearer token
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	h.login(w, r, req.CredentialKey, req.Password)
}

func (h *IdentityHandler) login(w http.ResponseWriter, r *http.Request, credentialKey, password string) {
	if credentialKey == "" || password == "" {
		middleware.WriteError(w, apperr.Validation("credential_key and password are required"))
		return
	}

	identity, err := h.creds.Verify(r.Context(), credentialKey, password)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAuthentication {
			slog.Warn("login failed", "credential_key", auth.MaskCredentialKey(credentialKey))
		}
		middleware.WriteError(w, err)
		return
	}

	token, claims, err := h.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		middleware.WriteError(w, apperr.Internal(err))
		return
	}

	slog.Info("session issued", "identity_id", identity.ID, "role", identity.Role)

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
	})
}

// GetMe handles GET /identities/me
// Returns the caller's profile with the credential key masked
func (h *IdentityHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, auth.ErrInvalidToken)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toProfile(identity))
}

// ChangePassword handles PUT /identities/me/password
func (h *IdentityHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	h.changePassword(w, r, req.CurrentPassword, req.NewPassword)
}

func (h *IdentityHandler) changePassword(w http.ResponseWriter, r *http.Request, current, next string) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, auth.ErrInvalidToken)
		return
	}

	if current == "" || next == "" {
		middleware.WriteError(w, apperr.Validation("current_password and new_password are required"))
		return
	}

	if err := h.creds.ChangePassword(r.Context(), identity.ID, current, next); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("password changed", "identity_id", identity.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Password updated successfully",
	})
}

// toProfile is the only conversion from an identity to a response body
func toProfile(identity models.Identity) models.Profile {
	return models.Profile{
		ID:            identity.ID,
		Name:          identity.Name,
		Age:           identity.Age,
		Email:         identity.Email,
		Mobile:        identity.Mobile,
		Address:       identity.Address,
		CredentialKey: auth.MaskCredentialKey(identity.CredentialKey),
		Role:          identity.Role,
		HasVoted:      identity.HasVoted,
		VotedAt:       identity.VotedAt,
		CreatedAt:     identity.CreatedAt,
	}
}
