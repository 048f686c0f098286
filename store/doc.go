// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds the persistent state of the ballot box.

# Components

  - Credentials: identity records and password hashes
  - Ballots: the candidate roster, tally and audit
  - Voting: the vote transaction

Each is built from a *sql.DB:

	creds := store.NewCredentials(conn, hasher)
	ballots := store.NewBallots(conn)
	voting := store.NewVoting(conn)

# Casting a Vote

	receipt, err := voting.CastVote(ctx, voterID, candidateID, meta)

The vote commits in one transaction: the voter is marked with a conditional
UPDATE (has_voted = FALSE to TRUE), a vote_record row is inserted, and the
candidate's vote_count is incremented. A second attempt from the same voter
finds zero rows to update and fails with ErrAlreadyVoted, however many
requests race.

# Errors

All errors returned are *apperr.Error values. The exported sentinels can be
matched with errors.Is:

	ErrInvalidCredentials   authentication
	ErrWrongPassword        authentication
	ErrAdminCannotVote      authorization
	ErrIdentityNotFound     not found
	ErrVoterNotFound        not found
	ErrCandidateNotFound    not found
	ErrDuplicateCredential  conflict
	ErrAlreadyVoted         conflict
	ErrCandidateHasVotes    conflict
*/
package store
