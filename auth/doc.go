// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, bearer tokens, and role checks.

# Passwords

Passwords are hashed with bcrypt using a per-hash random salt:

	hasher, err := auth.NewPasswordHasher(12)
	hash, err := hasher.Hash(plaintext)
	ok := hasher.Compare(hash, plaintext)

Hash enforces the password rules (at least 6 characters, at most 72 bytes).
When a login names an unknown credential key, CompareDummy runs one
comparison against a fixed hash so that both failure paths cost the same.

# Bearer Tokens

Tokens are HS256 JWTs carrying the identity ID (sub), issue time (iat),
expiry (exp) and the identity's role:

	tokens, err := auth.NewTokenService(secret, 24*time.Hour)
	token, claims, err := tokens.Issue(identityID, models.RoleVoter)
	claims, err = tokens.Verify(token)

Verify returns ErrInvalidToken for a bad signature, malformed structure or
expiry alike. Tokens are stateless; there is no revocation before expiry.

# Guard

Guard resolves a token to the current identity record:

	guard := auth.NewGuard(tokens, credentialStore)
	identity, err := guard.Authenticate(ctx, token)
	err = auth.RequireRole(identity, models.RoleAdmin)

# Helpers

	id, err := auth.GenerateID()            // UUIDv4
	hash := auth.HashIP(ipAddress, salt)    // 16 hex chars of HMAC-SHA256
	shown := auth.MaskCredentialKey(key)    // XXXX-XXXX-9012
*/
package auth
