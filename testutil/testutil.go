// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/db"
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/store"
)

// TestPassword is the password of every fixture identity
const TestPassword = "test-password"

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir() and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3000,
		DatabaseURL:  "test.db",
		DatabaseType: db.TypeSQLite,
		TokenSecret:  "test-token-secret-test-token-secret",
		TokenTTL:     time.Hour,
		BcryptCost:   bcrypt.MinCost,
		IPHashSalt:   "test-ip-salt",
	}
}

// Env bundles a test database with the components built on it
type Env struct {
	DB          *sql.DB
	Config      cliparse.Config
	Credentials *store.Credentials
	Ballots     *store.Ballots
	Voting      *store.Voting
	Tokens      *auth.TokenService
	Guard       *auth.Guard
}

// NewTestEnv builds every component on a fresh test database
func NewTestEnv(t *testing.T) *Env {
	t.Helper()

	conn := SetupTestDB(t)
	cfg := GetTestConfig()

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		t.Fatalf("Failed to create password hasher: %v", err)
	}
	tokens, err := auth.NewTokenService([]byte(cfg.TokenSecret), cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	creds := store.NewCredentials(conn, hasher)
	return &Env{
		DB:          conn,
		Config:      cfg,
		Credentials: creds,
		Ballots:     store.NewBallots(conn),
		Voting:      store.NewVoting(conn),
		Tokens:      tokens,
		Guard:       auth.NewGuard(tokens, creds),
	}
}

// CreateTestVoter registers a voter with TestPassword
func CreateTestVoter(t *testing.T, env *Env, credentialKey string) models.Identity {
	t.Helper()

	identity, err := env.Credentials.Create(context.Background(), models.IdentityDraft{
		Name:          "Test Voter",
		Address:       "1 Test Street",
		CredentialKey: credentialKey,
		Password:      TestPassword,
	})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	return identity
}

// CreateTestAdmin registers an admin with TestPassword
func CreateTestAdmin(t *testing.T, env *Env, credentialKey string) models.Identity {
	t.Helper()

	identity, _, err := env.Credentials.CreateAdmin(context.Background(), models.IdentityDraft{
		Name:          "Test Admin",
		Address:       "1 Admin Street",
		CredentialKey: credentialKey,
		Password:      TestPassword,
	})
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return identity
}

// CreateTestCandidate adds a candidate and returns it
func CreateTestCandidate(t *testing.T, env *Env, name, party string) models.Candidate {
	t.Helper()

	candidate, err := env.Ballots.Add(context.Background(), models.CandidateDraft{Name: name, Party: party})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return candidate
}

// CastTestVote records a vote directly through the voting store
func CastTestVote(t *testing.T, env *Env, voterID, candidateID string) {
	t.Helper()

	if _, err := env.Voting.CastVote(context.Background(), voterID, candidateID, models.BallotMeta{}); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// BearerFor issues a token for identity and returns request headers
// carrying it
func BearerFor(t *testing.T, env *Env, identity models.Identity) map[string]string {
	t.Helper()

	token, _, err := env.Tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertConsistent fails the test unless the vote bookkeeping agrees
func AssertConsistent(t *testing.T, env *Env) models.AuditReport {
	t.Helper()

	report, err := env.Ballots.Audit(context.Background())
	if err != nil {
		t.Fatalf("Failed to audit votes: %v", err)
	}
	if !report.Consistent {
		t.Errorf("Vote bookkeeping inconsistent: %+v", report)
	}
	return report
}
