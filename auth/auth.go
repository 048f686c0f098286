// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballot-box/apperr"
)

var (
	ErrInvalidToken = apperr.Authentication("invalid or expired token")
	ErrForbidden    = apperr.Authorization("operation not permitted for this role")
)

// GenerateID creates a random UUIDv4 for database records
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return id.String(), nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}

// MaskCredentialKey hides all but the last four digits of a credential key
// for display. Storage always keeps the full value.
func MaskCredentialKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("X", len(key))
	}
	tail := key[len(key)-4:]
	masked := strings.Repeat("X", len(key)-4)

	// Group as XXXX-XXXX-1234 for the usual 12 digit key
	var b strings.Builder
	for i, c := range masked + tail {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(c)
	}
	return b.String()
}
