// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/middleware"
	"github.com/danielhkuo/ballot-box/models"
)

// LegacySignup handles POST /user/signup
// Same as Register, with the older camelCase body
func (h *IdentityHandler) LegacySignup(w http.ResponseWriter, r *http.Request) {
	var req models.LegacySignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	// Older clients could ask for a role; signup only ever creates voters
	if req.Role != "" && req.Role != models.RoleVoter {
		middleware.WriteError(w, apperr.Authorization("signup creates voter accounts only"))
		return
	}

	h.register(w, r, models.IdentityDraft{
		Name:          req.Name,
		Age:           req.Age,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Address:       req.Address,
		CredentialKey: string(req.AadharCardNumber),
		Password:      req.Password,
	})
}

// LegacyLogin handles POST /user/login
func (h *IdentityHandler) LegacyLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LegacyLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	h.login(w, r, string(req.AadharCardNumber), req.Password)
}

// LegacyChangePassword handles PUT /user/profile/password
func (h *IdentityHandler) LegacyChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.LegacyChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	h.changePassword(w, r, req.CurrentPassword, req.NewPassword)
}
