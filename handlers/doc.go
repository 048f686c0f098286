// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballot-box API.

# Handler Types

Each handler is a struct holding the stores it serves:

  - IdentityHandler: Registration, sign-in, profile and password change
  - CandidateHandler: Roster reads and management, voting, tally, audit

Handlers are created via constructor functions:

	identityHandler := handlers.NewIdentityHandler(creds, tokens)
	candidateHandler := handlers.NewCandidateHandler(ballots, voting, cfg)

Every failure is written with middleware.WriteError, so status codes follow
the error kind returned by the store.

# Identities

	POST /identities             → Register (201, profile + token)
	POST /sessions               → Login (token)
	GET  /identities/me          → GetMe (bearer)
	PUT  /identities/me/password → ChangePassword (bearer)

Registration always creates a voter. Profiles never include the password
hash and show the credential key masked.

LegacySignup, LegacyLogin and LegacyChangePassword serve the older /user
paths. They decode the older camelCase bodies and share the same code.

# Candidates

	GET    /candidates          → List
	GET    /candidates/{id}     → Get
	GET    /candidates/tally    → Tally ([{party, count}], count descending)
	POST   /candidates          → Create (admin)
	PUT    /candidates/{id}     → Update (admin)
	DELETE /candidates/{id}     → Delete (admin, only without votes)
	GET    /candidates/audit    → Audit (admin)

# Voting

	POST /candidates/{id}/vote → Vote (bearer)

Admins get 403, a second vote gets 409. The vote record stores a salted
hash of the client IP and the user agent. Proxy headers count toward the
client IP only when TrustProxy is configured.
*/
package handlers
