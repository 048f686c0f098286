// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3000)
  - DatabaseURL: PostgreSQL connection string or SQLite path (required)
  - DatabaseType: sqlite (default) or postgres
  - TokenSecret: HS256 signing key, at least 32 bytes (required)
  - TokenTTL: Bearer token lifetime (default: 24h)
  - BcryptCost: Password hashing work factor (default: 12)
  - IPHashSalt: Secret for hashing voter IP addresses (default: TokenSecret)
  - TrustProxy: Read client IPs from proxy headers (default: false)
  - Admin: Optional administrator seeded at startup

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	-token-secret   Token signing secret
	-token-ttl      Token lifetime (e.g. 12h)
	-bcrypt-cost    bcrypt work factor
	-ip-salt        IP hash salt
	-trust-proxy    Honor X-Forwarded-For and X-Real-IP
	-env-file       Dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	TOKEN_SECRET  → -token-secret
	TOKEN_TTL     → -token-ttl
	BCRYPT_COST   → -bcrypt-cost
	IP_HASH_SALT  → -ip-salt
	TRUST_PROXY   → -trust-proxy

The admin seed is environment-only:

	ADMIN_CREDENTIAL_KEY, ADMIN_PASSWORD, ADMIN_NAME, ADMIN_ADDRESS

Before the environment is read, the env file is loaded with
github.com/joho/godotenv. Variables already set in the process environment
are not overwritten, and a missing file is not an error.

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - TOKEN_SECRET is missing or shorter than 32 bytes
  - DATABASE_TYPE is not sqlite or postgres
  - TRUST_PROXY, PORT, BCRYPT_COST or TOKEN_TTL cannot be parsed
  - Only one of ADMIN_CREDENTIAL_KEY and ADMIN_PASSWORD is set
*/
package cliparse
