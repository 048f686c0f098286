// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/db"
	"github.com/danielhkuo/ballot-box/models"
)

type testStores struct {
	conn    *sql.DB
	creds   *Credentials
	ballots *Ballots
	voting  *Voting
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(conn))

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	return &testStores{
		conn:    conn,
		creds:   NewCredentials(conn, hasher),
		ballots: NewBallots(conn),
		voting:  NewVoting(conn),
	}
}

func voterDraft(key string) models.IdentityDraft {
	return models.IdentityDraft{
		Name:          "Test Voter",
		Address:       "1 Main Street",
		CredentialKey: key,
		Password:      "correct-horse",
	}
}

func (s *testStores) voter(t *testing.T, key string) models.Identity {
	t.Helper()
	identity, err := s.creds.Create(context.Background(), voterDraft(key))
	require.NoError(t, err)
	return identity
}

func (s *testStores) admin(t *testing.T, key string) models.Identity {
	t.Helper()
	draft := voterDraft(key)
	draft.Name = "Test Admin"
	identity, _, err := s.creds.CreateAdmin(context.Background(), draft)
	require.NoError(t, err)
	return identity
}

func (s *testStores) candidate(t *testing.T, name, party string) models.Candidate {
	t.Helper()
	c, err := s.ballots.Add(context.Background(), models.CandidateDraft{Name: name, Party: party})
	require.NoError(t, err)
	return c
}

func (s *testStores) assertConsistent(t *testing.T) models.AuditReport {
	t.Helper()
	report, err := s.ballots.Audit(context.Background())
	require.NoError(t, err)
	require.True(t, report.Consistent, "audit inconsistent: %+v", report)
	return report
}
