// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/cliparse"
	"github.com/danielhkuo/ballot-box/middleware"
	"github.com/danielhkuo/ballot-box/models"
	"github.com/danielhkuo/ballot-box/store"
)

// maxUserAgentLen bounds what is stored with a vote record
const maxUserAgentLen = 256

type CandidateHandler struct {
	ballots *store.Ballots
	voting  *store.Voting
	cfg     cliparse.Config
}

func NewCandidateHandler(ballots *store.Ballots, voting *store.Voting, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{ballots: ballots, voting: voting, cfg: cfg}
}

// List handles GET /candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.ballots.List(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Get handles GET /candidates/{id}
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.ballots.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidate)
}

// Tally handles GET /candidates/tally
// Returns [{party, count}] sorted by count descending
func (h *CandidateHandler) Tally(w http.ResponseWriter, r *http.Request) {
	tally, err := h.ballots.Tally(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}

// Create handles POST /candidates (admin)
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	candidate, err := h.ballots.Add(r.Context(), models.CandidateDraft{
		Name:  req.Name,
		Party: req.Party,
		Age:   req.Age,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("candidate created", "candidate_id", candidate.ID, "party", candidate.Party)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// Update handles PUT /candidates/{id} (admin)
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

	candidate, err := h.ballots.Update(r.Context(), candidateID, models.CandidateDraft{
		Name:  req.Name,
		Party: req.Party,
		Age:   req.Age,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("candidate updated", "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusOK, candidate)
}

// Delete handles DELETE /candidates/{id} (admin)
// Candidates that already have votes cannot be removed
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	if err := h.ballots.Remove(r.Context(), candidateID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("candidate deleted", "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Candidate deleted successfully",
	})
}

// Vote handles POST /candidates/{id}/vote
// Casts the caller's single vote; admins are rejected by the store
func (h *CandidateHandler) Vote(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		middleware.WriteError(w, auth.ErrInvalidToken)
		return
	}

	candidateID := r.PathValue("id")

	userAgent := r.UserAgent()
	if len(userAgent) > maxUserAgentLen {
		userAgent = userAgent[:maxUserAgentLen]
	}
	meta := models.BallotMeta{
		IPHash:    auth.HashIP(middleware.GetClientIP(r, h.cfg.TrustProxy), h.cfg.IPHashSalt),
		UserAgent: userAgent,
	}

	receipt, err := h.voting.CastVote(r.Context(), identity.ID, candidateID, meta)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("vote cast", "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusOK, receipt)
}

// Audit handles GET /candidates/audit (admin)
// Reports whether vote counts, voter flags and vote records agree
func (h *CandidateHandler) Audit(w http.ResponseWriter, r *http.Request) {
	report, err := h.ballots.Audit(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if !report.Consistent {
		slog.Error("vote audit inconsistent",
			"total_vote_count", report.TotalVoteCount,
			"voters_who_voted", report.VotersWhoVoted,
			"vote_records", report.VoteRecords,
			"mismatched_candidates", report.MismatchedCounts,
		)
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}
