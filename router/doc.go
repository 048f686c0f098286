// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the services to HTTP routes.

# Setup

	svc, err := router.NewServices(dbConn, cfg)
	handler := router.NewRouter(svc, cfg)

NewServices builds the password hasher, token service, stores and guard
once. NewRouter registers the routes on an http.ServeMux using Go 1.22+
method patterns and wraps the mux in CORS.

# Route Groups

  - public: logging only
  - authed: logging and bearer authentication
  - adminOnly: authed plus the admin role check

# Legacy Paths

Older clients used these paths; they map onto the same operations:

	POST   /user/signup            → POST /identities
	POST   /user/login             → POST /sessions
	GET    /user/profile           → GET /identities/me
	PUT    /user/profile/password  → PUT /identities/me/password
	GET    /candidate/candidate    → GET /candidates
	GET    /candidate/vote/count   → GET /candidates/tally
	POST   /candidate/vote/{id}    → POST /candidates/{id}/vote
	POST   /candidate              → POST /candidates
	PUT    /candidate/{id}         → PUT /candidates/{id}
	DELETE /candidate/{id}         → DELETE /candidates/{id}

The /user paths take the older request bodies: aadharCardNumber (string or
number) for the credential key, and currentPassword/newPassword for a
password change. Signup may still send role, but only "voter" is accepted.
*/
package router
