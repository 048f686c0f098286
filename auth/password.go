// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/ballot-box/apperr"
)

const (
	MinPasswordLength = 6
	maxPasswordBytes  = 72 // bcrypt ignores anything past this
)

// PasswordHasher derives and checks salted bcrypt hashes
type PasswordHasher struct {
	cost  int
	dummy []byte
}

func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	// Compared against when a credential key is unknown, so that path costs
	// the same as a wrong password
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to derive dummy hash: %w", err)
	}

	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// ValidatePassword checks the plaintext password rules
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return apperr.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

// Hash validates and hashes a plaintext password with a fresh random salt
func (p *PasswordHasher) Hash(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. bcrypt compares in
// constant time.
func (p *PasswordHasher) Compare(hash, password string) bool {
	// A malformed stored hash is also just "no match"
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareDummy burns one comparison and always reports no match
func (p *PasswordHasher) CompareDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(p.dummy, []byte(password))
	return false
}
