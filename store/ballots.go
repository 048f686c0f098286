// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/auth"
	"github.com/danielhkuo/ballot-box/db"
	"github.com/danielhkuo/ballot-box/models"
)

var (
	ErrCandidateNotFound = apperr.NotFound("candidate not found")
	ErrCandidateHasVotes = apperr.Conflict("candidate has recorded votes and cannot be removed")
)

// Ballots owns the candidate roster. Vote counters are read here but only
// ever written by Voting.
type Ballots struct {
	db  *sql.DB
	now func() time.Time
}

func NewBallots(conn *sql.DB) *Ballots {
	return &Ballots{db: conn, now: time.Now}
}

// List returns all candidates in insertion order
func (b *Ballots) List(ctx context.Context) ([]models.Candidate, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, name, party, age, vote_count, created_at
		FROM candidate
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to query candidates: %w", err))
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to scan candidate: %w", err))
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}

	return candidates, nil
}

// Get returns one candidate
func (b *Ballots) Get(ctx context.Context, candidateID string) (models.Candidate, error) {
	row := b.db.QueryRowContext(ctx, `
		SELECT id, name, party, age, vote_count, created_at
		FROM candidate
		WHERE id = $1
	`, candidateID)

	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return models.Candidate{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Candidate{}, apperr.Internal(fmt.Errorf("failed to query candidate: %w", err))
	}
	return c, nil
}

// Tally returns {party, count} sorted by count descending. Ties keep
// insertion order.
func (b *Ballots) Tally(ctx context.Context) ([]models.TallyEntry, error) {
	candidates, err := b.List(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(candidates, func(x, y models.Candidate) int {
		return cmp.Compare(y.VoteCount, x.VoteCount)
	})

	tally := make([]models.TallyEntry, 0, len(candidates))
	for _, c := range candidates {
		tally = append(tally, models.TallyEntry{Party: c.Party, Count: c.VoteCount})
	}
	return tally, nil
}

// Add creates a candidate with no votes
func (b *Ballots) Add(ctx context.Context, draft models.CandidateDraft) (models.Candidate, error) {
	draft, err := normalizeCandidateDraft(draft)
	if err != nil {
		return models.Candidate{}, err
	}

	id, err := auth.GenerateID()
	if err != nil {
		return models.Candidate{}, apperr.Internal(err)
	}

	c := models.Candidate{
		ID:        id,
		Name:      draft.Name,
		Party:     draft.Party,
		Age:       draft.Age,
		CreatedAt: b.now().UTC(),
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO candidate (id, name, party, age, vote_count, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`, c.ID, c.Name, c.Party, nullInt(c.Age), c.CreatedAt)
	if err != nil {
		return models.Candidate{}, apperr.Internal(fmt.Errorf("failed to insert candidate: %w", err))
	}

	return c, nil
}

// Update replaces the descriptive fields of a candidate
func (b *Ballots) Update(ctx context.Context, candidateID string, draft models.CandidateDraft) (models.Candidate, error) {
	draft, err := normalizeCandidateDraft(draft)
	if err != nil {
		return models.Candidate{}, err
	}

	res, err := b.db.ExecContext(ctx, `
		UPDATE candidate SET name = $1, party = $2, age = $3
		WHERE id = $4
	`, draft.Name, draft.Party, nullInt(draft.Age), candidateID)
	if err != nil {
		return models.Candidate{}, apperr.Internal(fmt.Errorf("failed to update candidate: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Candidate{}, apperr.Internal(err)
	}
	if n == 0 {
		return models.Candidate{}, ErrCandidateNotFound
	}

	return b.Get(ctx, candidateID)
}

// Remove deletes a candidate that has no votes. Candidates with votes are
// kept so the tally and the voters' has_voted flags stay in agreement.
func (b *Ballots) Remove(ctx context.Context, candidateID string) error {
	res, err := b.db.ExecContext(ctx, `
		DELETE FROM candidate WHERE id = $1 AND vote_count = 0
	`, candidateID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrCandidateHasVotes
		}
		return apperr.Internal(fmt.Errorf("failed to delete candidate: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err)
	}
	if n > 0 {
		return nil
	}

	// Nothing deleted: either missing or it has votes
	if _, err := b.Get(ctx, candidateID); err != nil {
		return err
	}
	return ErrCandidateHasVotes
}

// Audit checks the global bookkeeping in one statement, so every figure
// comes from the same snapshot
func (b *Ballots) Audit(ctx context.Context) (models.AuditReport, error) {
	var report models.AuditReport
	err := b.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COALESCE(SUM(vote_count), 0) FROM candidate),
			(SELECT COUNT(*) FROM identity WHERE has_voted = TRUE),
			(SELECT COUNT(*) FROM vote_record),
			(SELECT COUNT(*) FROM candidate c
			 WHERE c.vote_count <> (SELECT COUNT(*) FROM vote_record v WHERE v.candidate_id = c.id))
	`).Scan(&report.TotalVoteCount, &report.VotersWhoVoted, &report.VoteRecords, &report.MismatchedCounts)
	if err != nil {
		return models.AuditReport{}, apperr.Internal(fmt.Errorf("failed to audit votes: %w", err))
	}

	report.Consistent = report.TotalVoteCount == report.VotersWhoVoted &&
		report.TotalVoteCount == report.VoteRecords &&
		report.MismatchedCounts == 0
	return report, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var (
		c   models.Candidate
		age sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Party, &age, &c.VoteCount, &c.CreatedAt); err != nil {
		return models.Candidate{}, err
	}
	if age.Valid {
		a := int(age.Int64)
		c.Age = &a
	}
	return c, nil
}
