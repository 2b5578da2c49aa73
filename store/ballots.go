// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/votedesk/models"
)

// InsertBallot writes one ballot. Ballots are never updated.
func (s *Store) InsertBallot(ctx context.Context, b models.Ballot) error {
	votes, err := b.Votes.Encode()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ballot (id, session_id, election_id, org_id, votes, type, voter_id, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, b.ID, b.SessionID, b.ElectionID, b.OrgID, votes, string(b.Type), b.VoterID, b.CastAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert ballot: %w", err)
	}
	return nil
}

// ListBallots returns the ballots of one session, oldest first.
func (s *Store) ListBallots(ctx context.Context, electionID int64, sessionID string) ([]models.Ballot, error) {
	return s.queryBallots(ctx, `
		SELECT id, session_id, election_id, org_id, votes, type, voter_id, cast_at
		FROM ballot
		WHERE election_id = $1 AND session_id = $2
		ORDER BY cast_at, id
	`, electionID, sessionID)
}

// ListElectionBallots returns every ballot of an election across sessions.
func (s *Store) ListElectionBallots(ctx context.Context, electionID int64) ([]models.Ballot, error) {
	return s.queryBallots(ctx, `
		SELECT id, session_id, election_id, org_id, votes, type, voter_id, cast_at
		FROM ballot
		WHERE election_id = $1
		ORDER BY cast_at, id
	`, electionID)
}

// DeleteElectionBallots removes all ballots of an election.
func (s *Store) DeleteElectionBallots(ctx context.Context, electionID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ballot WHERE election_id = $1`, electionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ballots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted ballots: %w", err)
	}
	return n, nil
}

func (s *Store) queryBallots(ctx context.Context, query string, args ...any) ([]models.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	ballots := []models.Ballot{}
	for rows.Next() {
		var b models.Ballot
		var votes string
		if err := rows.Scan(&b.ID, &b.SessionID, &b.ElectionID, &b.OrgID, &votes, &b.Type, &b.VoterID, &b.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		if b.Votes, err = models.DecodeVotes(votes); err != nil {
			return nil, err
		}
		b.CastAt = b.CastAt.UTC()
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}
