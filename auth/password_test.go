// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/ballot-box/apperr"
)

func TestNewPasswordHasherCostRange(t *testing.T) {
	_, err := NewPasswordHasher(bcrypt.MinCost - 1)
	assert.Error(t, err)

	_, err = NewPasswordHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)

	_, err = NewPasswordHasher(bcrypt.MinCost)
	assert.NoError(t, err)
}

func TestPasswordHashAndCompare(t *testing.T) {
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotContains(t, hash, "correct horse")

	assert.True(t, hasher.Compare(hash, "correct horse"))
	assert.False(t, hasher.Compare(hash, "correct horsE"))
	assert.False(t, hasher.Compare("not-a-bcrypt-hash", "correct horse"))

	// Fresh salt each time
	again, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
	assert.True(t, hasher.Compare(again, "correct horse"))
}

func TestPasswordRules(t *testing.T) {
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "abc12", true},
		{"minimum", "abc123", false},
		{"multibyte counts runes", "пароль", false},
		{"too long", strings.Repeat("x", 73), true},
		{"bcrypt limit", strings.Repeat("x", 72), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hasher.Hash(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompareDummyNeverMatches(t *testing.T) {
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, hasher.CompareDummy("not-a-real-password"))
	assert.False(t, hasher.CompareDummy(""))
}
