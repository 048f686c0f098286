// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: name, age, email, mobile, address, credential_key, password
  - LoginRequest: credential_key, password
  - ChangePasswordRequest: current_password, new_password
  - CandidateRequest: name, party, age

Older clients post camelCase bodies on the /user/... paths. These map onto
the same drafts:

  - LegacySignupRequest: aadharCardNumber instead of credential_key, optional role
  - LegacyLoginRequest: aadharCardNumber, password
  - LegacyChangePasswordRequest: currentPassword, newPassword
  - LegacyKey: credential key given as a JSON string or number

# Response Types

Types for JSON responses:

  - RegisterResponse: profile, token, expires_at
  - TokenResponse: token, expires_at
  - Profile: identity as shown to its owner (credential key masked)
  - TallyEntry: party, count
  - VoteReceipt: candidate_id, cast_at, message
  - AuditReport: global vote bookkeeping check
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Identity: voter or admin record; PasswordHash never serializes
  - Candidate: roster entry with its cached vote_count
  - VoteRecord: one ballot; references the voter and is never serialized
  - IdentityDraft, CandidateDraft: validated inputs to the stores
  - BallotMeta: hashed client IP and user agent kept with a ballot

# Roles

	RoleVoter = "voter"
	RoleAdmin = "admin"

Role is a plain tagged value. Authorization is a function of the role and the
operation, see auth.RequireRole.
*/
package models
