// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// sqlitePragmas are appended to every SQLite DSN
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
	"_time_format=sqlite",
}

// Open connects to the configured database and verifies the connection
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch dbType {
	case TypePostgres:
		conn, err = sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		conn.SetMaxOpenConns(25)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	case TypeSQLite:
		conn, err = sql.Open("sqlite", SQLiteDSN(url))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// SQLite has a single writer; one connection keeps writers queued
		// in the pool instead of failing with SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported database type %q (want %s or %s)", dbType, TypeSQLite, TypePostgres)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// SQLiteDSN adds the pragmas the schema relies on to a SQLite path or URI
func SQLiteDSN(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(sqlitePragmas, "&")
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY conflict
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// Primary code only, when extended codes are off
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}

	return false
}

// IsForeignKeyViolation reports whether err is a foreign key conflict
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "FOREIGN KEY constraint failed")
		}
	}

	return false
}
