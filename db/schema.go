// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema is shared by PostgreSQL and SQLite, so timestamps are always
// supplied by the application rather than column defaults.
const schema = `
-- Identities (voters and admins)
CREATE TABLE IF NOT EXISTS identity (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    age INTEGER,
    email TEXT,
    mobile TEXT,
    address TEXT NOT NULL,
    credential_key TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('voter', 'admin')),
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    voted_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL,
    CHECK (role = 'voter' OR has_voted = FALSE)
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    party TEXT NOT NULL,
    age INTEGER,
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidate_created_at ON candidate(created_at);

-- Vote records: one per voter across all candidates
CREATE TABLE IF NOT EXISTS vote_record (
    voter_id TEXT PRIMARY KEY REFERENCES identity(id),
    candidate_id TEXT NOT NULL REFERENCES candidate(id),
    cast_at TIMESTAMP NOT NULL,
    ip_hash TEXT,
    user_agent TEXT
);

CREATE INDEX IF NOT EXISTS idx_vote_record_candidate_id ON vote_record(candidate_id);
`
