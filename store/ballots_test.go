// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballot-box/apperr"
	"github.com/danielhkuo/ballot-box/models"
)

func TestAddAndListCandidates(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	empty, err := s.ballots.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	a := s.candidate(t, "Alice", "X")
	b := s.candidate(t, "Bob", "Y")
	assert.Equal(t, 0, a.VoteCount)

	list, err := s.ballots.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestAddCandidateValidation(t *testing.T) {
	s := newTestStores(t)
	old := 121

	tests := []struct {
		name  string
		draft models.CandidateDraft
	}{
		{"missing name", models.CandidateDraft{Party: "X"}},
		{"missing party", models.CandidateDraft{Name: "Alice", Party: "   "}},
		{"age out of range", models.CandidateDraft{Name: "Alice", Party: "X", Age: &old}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ballots.Add(context.Background(), tt.draft)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestGetCandidate(t *testing.T) {
	s := newTestStores(t)
	c := s.candidate(t, "Alice", "X")

	got, err := s.ballots.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "X", got.Party)

	_, err = s.ballots.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestUpdateCandidateKeepsVotes(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	c := s.candidate(t, "Alice", "X")
	voter := s.voter(t, "123456789012")
	_, err := s.voting.CastVote(ctx, voter.ID, c.ID, models.BallotMeta{})
	require.NoError(t, err)

	age := 45
	updated, err := s.ballots.Update(ctx, c.ID, models.CandidateDraft{Name: "Alice B.", Party: "Z", Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", updated.Name)
	assert.Equal(t, "Z", updated.Party)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 45, *updated.Age)
	assert.Equal(t, 1, updated.VoteCount)

	_, err = s.ballots.Update(ctx, "missing", models.CandidateDraft{Name: "N", Party: "P"})
	require.ErrorIs(t, err, ErrCandidateNotFound)

	s.assertConsistent(t)
}

func TestRemoveCandidate(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	t.Run("no votes", func(t *testing.T) {
		c := s.candidate(t, "Alice", "X")
		require.NoError(t, s.ballots.Remove(ctx, c.ID))

		_, err := s.ballots.Get(ctx, c.ID)
		require.ErrorIs(t, err, ErrCandidateNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		require.ErrorIs(t, s.ballots.Remove(ctx, "missing"), ErrCandidateNotFound)
	})

	t.Run("has votes", func(t *testing.T) {
		c := s.candidate(t, "Bob", "Y")
		voter := s.voter(t, "123456789012")
		_, err := s.voting.CastVote(ctx, voter.ID, c.ID, models.BallotMeta{})
		require.NoError(t, err)

		err = s.ballots.Remove(ctx, c.ID)
		require.ErrorIs(t, err, ErrCandidateHasVotes)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

		got, err := s.ballots.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.VoteCount)
		s.assertConsistent(t)
	})
}

func TestTally(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	empty, err := s.ballots.Tally(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	a := s.candidate(t, "Alice", "X")
	b := s.candidate(t, "Bob", "Y")
	s.candidate(t, "Carol", "Z")

	keys := []string{"100000000001", "100000000002", "100000000003", "100000000004"}
	targets := []string{a.ID, a.ID, a.ID, b.ID}
	for i, key := range keys {
		voter := s.voter(t, key)
		_, err := s.voting.CastVote(ctx, voter.ID, targets[i], models.BallotMeta{})
		require.NoError(t, err)
	}

	tally, err := s.ballots.Tally(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.TallyEntry{
		{Party: "X", Count: 3},
		{Party: "Y", Count: 1},
		{Party: "Z", Count: 0},
	}, tally)

	report := s.assertConsistent(t)
	assert.Equal(t, 4, report.TotalVoteCount)
	assert.Equal(t, 4, report.VotersWhoVoted)
	assert.Equal(t, 4, report.VoteRecords)
}

func TestAuditDetectsDrift(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	c := s.candidate(t, "Alice", "X")

	_, err := s.conn.ExecContext(ctx, `UPDATE candidate SET vote_count = 2 WHERE id = $1`, c.ID)
	require.NoError(t, err)

	report, err := s.ballots.Audit(ctx)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, 1, report.MismatchedCounts)
	assert.Equal(t, 2, report.TotalVoteCount)
	assert.Equal(t, 0, report.VoteRecords)
}
