// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver by type and pings the server:

	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")
	conn, err := db.Open(ctx, db.TypeSQLite, "ballots.db")

PostgreSQL uses github.com/lib/pq. SQLite uses the pure-Go modernc.org/sqlite
driver with foreign keys on, a busy timeout, WAL journaling, and a single open
connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - identity: Voters and admins; credential_key is unique
  - candidate: Roster entries with a cached vote_count
  - vote_record: One row per voter (voter_id is the primary key)

# Relationships

	identity 1──0..1 vote_record
	candidate 1──* vote_record

Foreign keys do not cascade. A candidate that has vote records cannot be
deleted.

# Constraint Errors

IsUniqueViolation and IsForeignKeyViolation classify driver errors from
either backend.
*/
package db
