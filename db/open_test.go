// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		url  string
		sep  string
	}{
		{"plain path", "ballots.db", "ballots.db?"},
		{"uri with query", "file:ballots.db?mode=rwc", "file:ballots.db?mode=rwc&"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := SQLiteDSN(tt.url)
			if !strings.HasPrefix(dsn, tt.sep) {
				t.Errorf("SQLiteDSN(%q) = %q, want prefix %q", tt.url, dsn, tt.sep)
			}
			if !strings.Contains(dsn, "_pragma=foreign_keys(1)") {
				t.Errorf("SQLiteDSN(%q) missing foreign_keys pragma", tt.url)
			}
		})
	}
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	if err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestCreateSchemaAndConstraints(t *testing.T) {
	conn, err := Open(context.Background(), TypeSQLite, filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	// Idempotent
	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() call %d error = %v", i+1, err)
		}
	}

	now := time.Now().UTC()
	insertIdentity := `
		INSERT INTO identity (id, name, address, credential_key, password_hash, role, has_voted, created_at)
		VALUES ($1, 'Asha', 'Pune', $2, 'hash', 'voter', FALSE, $3)
	`
	if _, err := conn.Exec(insertIdentity, "id-1", "123456789012", now); err != nil {
		t.Fatalf("insert identity: %v", err)
	}

	_, err = conn.Exec(insertIdentity, "id-2", "123456789012", now)
	if !IsUniqueViolation(err) {
		t.Errorf("duplicate credential_key: IsUniqueViolation(%v) = false", err)
	}

	_, err = conn.Exec(`
		INSERT INTO vote_record (voter_id, candidate_id, cast_at) VALUES ($1, $2, $3)
	`, "id-1", "no-such-candidate", now)
	if !IsForeignKeyViolation(err) {
		t.Errorf("dangling candidate: IsForeignKeyViolation(%v) = false", err)
	}

	// Admins can never be marked as voted
	_, err = conn.Exec(`
		INSERT INTO identity (id, name, address, credential_key, password_hash, role, has_voted, created_at)
		VALUES ('id-3', 'Root', 'HQ', '999999999999', 'hash', 'admin', TRUE, $1)
	`, now)
	if err == nil {
		t.Error("expected CHECK failure for admin with has_voted")
	}
}

func TestConstraintClassifiersOnPostgresErrors(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	fk := &pq.Error{Code: "23503"}

	if !IsUniqueViolation(unique) || IsUniqueViolation(fk) {
		t.Error("IsUniqueViolation misclassified pq errors")
	}
	if !IsForeignKeyViolation(fk) || IsForeignKeyViolation(unique) {
		t.Error("IsForeignKeyViolation misclassified pq errors")
	}
	if IsUniqueViolation(errors.New("UNIQUE")) || IsUniqueViolation(nil) {
		t.Error("plain errors are not constraint violations")
	}
}
