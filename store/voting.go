// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/db"
	"github.com/danielhkuo/ballot-box/models"
)

var (
	ErrVoterNotFound   = apperr.NotFound("voter not found")
	ErrAdminCannotVote = apperr.Authorization("admins are not allowed to vote")
	ErrAlreadyVoted    = apperr.Conflict("already voted")
)

// Voting casts ballots. It is the only code that writes identity.has_voted,
// candidate.vote_count and vote_record.
type Voting struct {
	db  *sql.DB
	now func() time.Time
}

func NewVoting(conn *sql.DB) *Voting {
	return &Voting{db: conn, now: time.Now}
}

// CastVote records voterID's single vote for candidateID.
//
// The pre-checks give precise errors for the common cases. Correctness under
// concurrency rests on commitVote alone: its conditional UPDATE flips
// has_voted from false to true for exactly one caller.
func (v *Voting) CastVote(ctx context.Context, voterID, candidateID string, meta models.BallotMeta) (models.VoteReceipt, error) {
	var (
		role     string
		hasVoted bool
	)
	err := v.db.QueryRowContext(ctx, `
		SELECT role, has_voted FROM identity WHERE id = $1
	`, voterID).Scan(&role, &hasVoted)
	if err == sql.ErrNoRows {
		return models.VoteReceipt{}, ErrVoterNotFound
	}
	if err != nil {
		return models.VoteReceipt{}, apperr.Internal(fmt.Errorf("failed to query voter: %w", err))
	}

	if models.Role(role) == models.RoleAdmin {
		return models.VoteReceipt{}, ErrAdminCannotVote
	}
	if hasVoted {
		return models.VoteReceipt{}, ErrAlreadyVoted
	}

	var exists bool
	err = v.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidate WHERE id = $1)
	`, candidateID).Scan(&exists)
	if err != nil {
		return models.VoteReceipt{}, apperr.Internal(fmt.Errorf("failed to query candidate: %w", err))
	}
	if !exists {
		return models.VoteReceipt{}, ErrCandidateNotFound
	}

	castAt := v.now().UTC()
	if err := v.commitVote(ctx, voterID, candidateID, castAt, meta); err != nil {
		return models.VoteReceipt{}, err
	}

	return models.VoteReceipt{
		CandidateID: candidateID,
		CastAt:      castAt,
		Message:     "Vote recorded successfully",
	}, nil
}

// commitVote applies the vote as one transaction: voter flag, ballot row and
// candidate counter all commit together or not at all.
func (v *Voting) commitVote(ctx context.Context, voterID, candidateID string, castAt time.Time, meta models.BallotMeta) error {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	// Serialization point: only one request can move this row from
	// has_voted = FALSE to TRUE
	res, err := tx.ExecContext(ctx, `
		UPDATE identity SET has_voted = TRUE, voted_at = $1
		WHERE id = $2 AND role = $3 AND has_voted = FALSE
	`, castAt, voterID, string(models.RoleVoter))
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to mark voter: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		return ErrAlreadyVoted
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote_record (voter_id, candidate_id, cast_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5)
	`, voterID, candidateID, castAt, nullString(meta.IPHash), nullString(meta.UserAgent))
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return ErrAlreadyVoted
		case db.IsForeignKeyViolation(err):
			return ErrCandidateNotFound
		}
		return apperr.Internal(fmt.Errorf("failed to insert vote record: %w", err))
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE candidate SET vote_count = vote_count + 1 WHERE id = $1
	`, candidateID)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to increment vote count: %w", err))
	}
	n, err = res.RowsAffected()
	if err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		// Removed between the pre-check and now
		return ErrCandidateNotFound
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal(fmt.Errorf("failed to commit vote: %w", err))
	}

	return nil
}

// records returns the ballots cast for a candidate, oldest first
func (v *Voting) records(ctx context.Context, candidateID string) ([]models.VoteRecord, error) {
	rows, err := v.db.QueryContext(ctx, `
		SELECT voter_id, candidate_id, cast_at, ip_hash, user_agent
		FROM vote_record
		WHERE candidate_id = $1
		ORDER BY cast_at, voter_id
	`, candidateID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to query vote records: %w", err))
	}
	defer rows.Close()

	records := []models.VoteRecord{}
	for rows.Next() {
		var (
			r         models.VoteRecord
			ipHash    sql.NullString
			userAgent sql.NullString
		)
		if err := rows.Scan(&r.VoterID, &r.CandidateID, &r.CastAt, &ipHash, &userAgent); err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to scan vote record: %w", err))
		}
		if ipHash.Valid {
			r.IPHash = &ipHash.String
		}
		if userAgent.Valid {
			r.UserAgent = &userAgent.String
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}

	return records, nil
}
