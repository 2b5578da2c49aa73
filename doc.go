// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for votedesk, an offline election desk.

An organization registers voters and candidates, runs elections in sessions
and casts ballots at a single voting booth. Results stay sealed until the
election is completed.

# Starting the Server

With no configuration the server uses a sqlite file in the working
directory:

	go run . serve

Or with flags:

	go run . serve -p 3318 -t postgres -d "postgres://..."

# Configuration

  - PORT (-p): Server port (default: 3318)
  - BIND_ADDR (--bind): Listen address (default: 127.0.0.1)
  - DATABASE_URL (-d): sqlite path or PostgreSQL URL (default: votedesk.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOG_LEVEL, LOG_FORMAT: slog level and text/json output
  - METRICS_ENABLED (--metrics): serve /metrics
  - VOTEDESK_CONFIG (--config): YAML file with the same settings

# Architecture

  - election: lifecycle, eligibility, ballots, booth and tally
  - store: database/sql persistence
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: domain and request/response types
  - auth: admin secret hashing and voter codes
  - metrics: Prometheus counters
  - db: connection and schema creation
  - cliparse: configuration loading
  - cli: cobra commands

See package documentation for each component.
*/
package main
