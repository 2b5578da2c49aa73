// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the configured database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	driver, err := driverName(dbType)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One process, one writer: keep sqlite on a single connection so
	// concurrent handlers queue instead of hitting SQLITE_BUSY.
	if driver == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

func driverName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case TypeSQLite, "":
		return TypeSQLite, nil
	case TypePostgres, "postgresql":
		return TypePostgres, nil
	}
	return "", fmt.Errorf("unsupported database type %q", dbType)
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	driver, err := driverName(dbType)
	if err != nil {
		return err
	}

	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == TypePostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	_, err = db.Exec(strings.ReplaceAll(schema, "{{id}}", idColumn))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Organizations
CREATE TABLE IF NOT EXISTS organization (
    id {{id}},
    name TEXT NOT NULL,
    secret_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id {{id}},
    org_id BIGINT NOT NULL REFERENCES organization(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (org_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_voter_org_id ON voter(org_id);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id {{id}},
    org_id BIGINT NOT NULL REFERENCES organization(id) ON DELETE CASCADE,
    position TEXT NOT NULL,
    name TEXT NOT NULL,
    symbol TEXT NOT NULL DEFAULT '',
    photo TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_candidate_org_position ON candidate(org_id, position);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id {{id}},
    org_id BIGINT NOT NULL REFERENCES organization(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'not_started' CHECK (status IN ('not_started', 'in_progress', 'paused', 'completed')),
    positions TEXT NOT NULL,
    active_positions TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('direct', 'qr', 'voter_id')),
    session_id TEXT NOT NULL DEFAULT '',
    start_time TIMESTAMP,
    end_time TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_org_id ON election(org_id);

-- Ballots (immutable, deleted only in bulk per election)
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    election_id BIGINT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    org_id BIGINT NOT NULL,
    votes TEXT NOT NULL,
    type TEXT NOT NULL,
    voter_id TEXT NOT NULL,
    cast_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ballot_election_session ON ballot(election_id, session_id);
`
