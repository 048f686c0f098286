// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/handlers"
	"github.com/danielhkuo/ballot-box/middleware"
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/store"
)

// Services holds the components the routes are served by. They are built
// once at startup and shared by every request.
type Services struct {
	Credentials *store.Credentials
	Ballots     *store.Ballots
	Voting      *store.Voting
	Tokens      *auth.TokenService
	Guard       *auth.Guard
}

// NewServices wires the stores and the token service from configuration
func NewServices(db *sql.DB, cfg cliparse.Config) (*Services, error) {
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService([]byte(cfg.TokenSecret), cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	creds := store.NewCredentials(db, hasher)

	return &Services{
		Credentials: creds,
		Ballots:     store.NewBallots(db),
		Voting:      store.NewVoting(db),
		Tokens:      tokens,
		Guard:       auth.NewGuard(tokens, creds),
	}, nil
}

func NewRouter(svc *Services, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	identityHandler := handlers.NewIdentityHandler(svc.Credentials, svc.Tokens)
	candidateHandler := handlers.NewCandidateHandler(svc.Ballots, svc.Voting, cfg)

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(svc.Guard, h))
	}
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(models.RoleAdmin, h))
	}
	public := middleware.WithLogging

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identities and sessions
	mux.HandleFunc("POST /identities", public(identityHandler.Register))
	mux.HandleFunc("POST /sessions", public(identityHandler.Login))
	mux.HandleFunc("GET /identities/me", authed(identityHandler.GetMe))
	mux.HandleFunc("PUT /identities/me/password", authed(identityHandler.ChangePassword))

	// Candidates (public reads)
	mux.HandleFunc("GET /candidates", public(candidateHandler.List))
	mux.HandleFunc("GET /candidates/tally", public(candidateHandler.Tally))
	mux.HandleFunc("GET /candidates/{id}", public(candidateHandler.Get))

	// Candidate management (admin operations)
	mux.HandleFunc("POST /candidates", adminOnly(candidateHandler.Create))
	mux.HandleFunc("PUT /candidates/{id}", adminOnly(candidateHandler.Update))
	mux.HandleFunc("DELETE /candidates/{id}", adminOnly(candidateHandler.Delete))
	mux.HandleFunc("GET /candidates/audit", adminOnly(candidateHandler.Audit))

	// Voting
	mux.HandleFunc("POST /candidates/{id}/vote", authed(candidateHandler.Vote))

	// Legacy paths kept for existing clients; identity routes take the older
	// camelCase bodies, candidate bodies are unchanged
	mux.HandleFunc("POST /user/signup", public(identityHandler.LegacySignup))
	mux.HandleFunc("POST /user/login", public(identityHandler.LegacyLogin))
	mux.HandleFunc("GET /user/profile", authed(identityHandler.GetMe))
	mux.HandleFunc("PUT /user/profile/password", authed(identityHandler.LegacyChangePassword))
	mux.HandleFunc("GET /candidate/candidate", public(candidateHandler.List))
	mux.HandleFunc("GET /candidate/vote/count", public(candidateHandler.Tally))
	mux.HandleFunc("POST /candidate/vote/{id}", authed(candidateHandler.Vote))
	mux.HandleFunc("POST /candidate", adminOnly(candidateHandler.Create))
	mux.HandleFunc("PUT /candidate/{id}", adminOnly(candidateHandler.Update))
	mux.HandleFunc("DELETE /candidate/{id}", adminOnly(candidateHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballot-box API v1"))
	})

	return middleware.CORS(mux)
}
