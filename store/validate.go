// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"net/mail"
	"strings"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/models"
)

const (
	CredentialKeyLength = 12
	MinAge              = 18
	MaxAge              = 120
)

// ValidCredentialKey reports whether key is a 12 digit national ID number
func ValidCredentialKey(key string) bool {
	if len(key) != CredentialKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

func validateAge(age *int) error {
	if age != nil && (*age < MinAge || *age > MaxAge) {
		return apperr.Validation("age must be between 18 and 120")
	}
	return nil
}

// normalizeIdentityDraft trims the descriptive fields and checks the
// required ones. The password is checked by the hasher.
func normalizeIdentityDraft(d models.IdentityDraft) (models.IdentityDraft, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
	d.CredentialKey = strings.TrimSpace(d.CredentialKey)
	d.Email = strings.TrimSpace(d.Email)
	d.Mobile = strings.TrimSpace(d.Mobile)

	switch {
	case d.Name == "":
		return d, apperr.Validation("name is required")
	case d.Address == "":
		return d, apperr.Validation("address is required")
	case d.CredentialKey == "":
		return d, apperr.Validation("credential_key is required")
	case d.Password == "":
		return d, apperr.Validation("password is required")
	}

	if !ValidCredentialKey(d.CredentialKey) {
		return d, apperr.Validation("credential_key must be 12 digits")
	}
	if err := validateAge(d.Age); err != nil {
		return d, err
	}
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			return d, apperr.Validation("email is not a valid address")
		}
	}

	return d, nil
}

func normalizeCandidateDraft(d models.CandidateDraft) (models.CandidateDraft, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Party = strings.TrimSpace(d.Party)

	if d.Name == "" {
		return d, apperr.Validation("name is required")
	}
	if d.Party == "" {
		return d, apperr.Validation("party is required")
	}
	if err := validateAge(d.Age); err != nil {
		return d, err
	}

	return d, nil
}
