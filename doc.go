// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballot-box API server.

Ballot-box lets registered voters sign in with a 12-digit national ID
number, cast exactly one vote for a candidate, and view the party tally.
Administrators manage the candidate roster but may not vote.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=ballots.db TOKEN_SECRET=... go run .

Or with flags:

	go run . -p 3000 -t postgres -d "postgres://..." -token-secret "..."

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - TOKEN_SECRET (-token-secret): Token signing key, at least 32 bytes

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - TOKEN_TTL (-token-ttl): Token lifetime (default: 24h)
  - BCRYPT_COST (-bcrypt-cost): Password hashing cost (default: 12)
  - IP_HASH_SALT (-ip-salt): Salt for hashed voter IPs
  - TRUST_PROXY (-trust-proxy): Take client IPs from proxy headers
  - ADMIN_CREDENTIAL_KEY, ADMIN_PASSWORD, ADMIN_NAME, ADMIN_ADDRESS:
    administrator created at startup

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (identities, candidates, voting)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, bearer auth, JSON helpers
  - store: Identity, candidate and vote persistence
  - auth: Passwords, tokens, role checks
  - apperr: Error kinds and their status codes
  - models: Request/response and domain types
  - db: Connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
