// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
)

var (
	ErrNotFound         = election.ErrNotFound
	ErrCandidateLimit   = fmt.Errorf("at most %d candidates per position", models.MaxCandidatesPerPosition)
	ErrDuplicateVoterID = errors.New("voter id already registered")
)

// Store persists organizations, voters, candidates, elections and ballots.
type Store struct {
	db *sql.DB
}

var _ election.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Organizations

func (s *Store) CreateOrganization(ctx context.Context, name string, secretHash []byte) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO organization (name, secret_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, string(secretHash), time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert organization: %w", err)
	}
	return id, nil
}

func (s *Store) GetOrganization(ctx context.Context, id int64) (models.Organization, error) {
	var org models.Organization
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, secret_hash, created_at FROM organization WHERE id = $1
	`, id).Scan(&org.ID, &org.Name, &hash, &org.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Organization{}, fmt.Errorf("organization %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Organization{}, fmt.Errorf("failed to query organization: %w", err)
	}
	org.SecretHash = []byte(hash)
	return org, nil
}

// Voters

// CreateVoter registers a voter. Voter ids are unique per organization
// regardless of case.
func (s *Store) CreateVoter(ctx context.Context, v models.Voter) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM voter WHERE org_id = $1 AND LOWER(voter_id) = LOWER($2)
		)
	`, v.OrgID, v.VoterID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check voter id: %w", err)
	}
	if exists {
		return 0, ErrDuplicateVoterID
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO voter (org_id, name, voter_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, v.OrgID, v.Name, v.VoterID, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert voter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit voter: %w", err)
	}
	return id, nil
}

// FindVoter looks a voter up by voter id, ignoring case.
func (s *Store) FindVoter(ctx context.Context, orgID int64, voterID string) (models.Voter, error) {
	var v models.Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, org_id, name, voter_id, created_at
		FROM voter
		WHERE org_id = $1 AND LOWER(voter_id) = LOWER($2)
	`, orgID, voterID).Scan(&v.ID, &v.OrgID, &v.Name, &v.VoterID, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Voter{}, fmt.Errorf("voter %q: %w", voterID, ErrNotFound)
	}
	if err != nil {
		return models.Voter{}, fmt.Errorf("failed to query voter: %w", err)
	}
	return v, nil
}

func (s *Store) ListVoters(ctx context.Context, orgID int64) ([]models.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, name, voter_id, created_at
		FROM voter
		WHERE org_id = $1
		ORDER BY id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ID, &v.OrgID, &v.Name, &v.VoterID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

// Candidates

// CreateCandidate adds a candidate unless the position is already full.
func (s *Store) CreateCandidate(ctx context.Context, c models.Candidate) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidate WHERE org_id = $1 AND position = $2
	`, c.OrgID, c.Position).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	if count >= models.MaxCandidatesPerPosition {
		return 0, ErrCandidateLimit
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO candidate (org_id, position, name, symbol, photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.OrgID, c.Position, c.Name, c.Symbol, c.Photo).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert candidate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit candidate: %w", err)
	}
	return id, nil
}

// ListCandidates returns candidates in registration order.
func (s *Store) ListCandidates(ctx context.Context, orgID int64) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org_id, position, name, symbol, photo
		FROM candidate
		WHERE org_id = $1
		ORDER BY id
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Position, &c.Name, &c.Symbol, &c.Photo); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
