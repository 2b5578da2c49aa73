// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/votedesk/models"
)

const electionColumns = `
	id, org_id, name, status, positions, active_positions, type,
	session_id, start_time, end_time, created_at
`

// CreateElection stores a new election in NotStarted state.
func (s *Store) CreateElection(ctx context.Context, e models.Election) (int64, error) {
	positions, err := encodeList(e.Positions)
	if err != nil {
		return 0, err
	}
	active, err := encodeList(e.ActivePositions)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO election (org_id, name, status, positions, active_positions, type, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, '', $7)
		RETURNING id
	`, e.OrgID, e.Name, string(models.StatusNotStarted), positions, active, string(e.Type), time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert election: %w", err)
	}
	return id, nil
}

func (s *Store) GetElection(ctx context.Context, id int64) (models.Election, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+electionColumns+` FROM election WHERE id = $1`, id)
	e, err := scanElection(row)
	if err == sql.ErrNoRows {
		return models.Election{}, fmt.Errorf("election %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Election{}, err
	}
	return e, nil
}

func (s *Store) ListElections(ctx context.Context, orgID int64) ([]models.Election, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+electionColumns+` FROM election WHERE org_id = $1 ORDER BY id`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, err
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// UpdateElection writes the mutable lifecycle fields of an election.
func (s *Store) UpdateElection(ctx context.Context, e models.Election) error {
	active, err := encodeList(e.ActivePositions)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE election
		SET status = $1, active_positions = $2, type = $3, session_id = $4,
		    start_time = $5, end_time = $6
		WHERE id = $7
	`, string(e.Status), active, string(e.Type), e.SessionID, nullTime(e.StartTime), nullTime(e.EndTime), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("election %d: %w", e.ID, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanElection(row rowScanner) (models.Election, error) {
	var e models.Election
	var positions, active string
	var start, end sql.NullTime
	err := row.Scan(
		&e.ID, &e.OrgID, &e.Name, &e.Status, &positions, &active, &e.Type,
		&e.SessionID, &start, &end, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Election{}, err
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to scan election: %w", err)
	}

	if e.Positions, err = decodeList(positions); err != nil {
		return models.Election{}, err
	}
	if e.ActivePositions, err = decodeList(active); err != nil {
		return models.Election{}, err
	}
	if start.Valid {
		t := start.Time.UTC()
		e.StartTime = &t
	}
	if end.Valid {
		t := end.Time.UTC()
		e.EndTime = &t
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode positions: %w", err)
	}
	return string(b), nil
}

func decodeList(payload string) ([]string, error) {
	list := []string{}
	if payload == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}
	return list, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
