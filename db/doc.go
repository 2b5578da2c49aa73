// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Drivers

Open selects the driver from the configured database type:

	conn, err := db.Open("sqlite", "votedesk.db")      // modernc.org/sqlite
	conn, err := db.Open("postgres", "postgres://...") // github.com/lib/pq

SQLite is the default for the offline desk. Connections to SQLite are
limited to one so writes from concurrent requests are serialized.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - organization: name and bcrypt hash of the admin secret
  - voter: organization-scoped voters, voter_id unique per organization
  - candidate: position-scoped candidates (max 10 per position)
  - election: lifecycle state, positions and current session id
  - ballot: one immutable row per cast ballot, votes stored as JSON text

# Relationships

	organization 1──* voter
	organization 1──* candidate
	organization 1──* election
	election 1──* ballot

Ballots are grouped into sessions by session_id; sessions are not stored.
*/
package db
