// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line flags and layered configuration.

# Configuration

Load returns a Config built from, lowest precedence first:

 1. Defaults()
 2. a YAML file (--config or VOTEDESK_CONFIG)
 3. a .env file in the working directory (never overrides the real environment)
 4. environment variables
 5. flags that were set explicitly

The cobra commands register the flags on their persistent flag set:

	cliparse.RegisterFlags(cmd.PersistentFlags())
	cfg, err := cliparse.Load(cmd.Flags())

ParseFlags does the same for a bare argument list.

# Config Fields

  - Port: Server listen port (default: 3318)
  - BindAddr: Listen address (default: 127.0.0.1)
  - DatabaseURL: sqlite file path or postgres URL (default: votedesk.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - LogLevel, LogFormat: slog level and text/json handler
  - MetricsEnabled: serve /metrics (default: true)

# Environment Variables

	PORT            → --port, -p
	BIND_ADDR       → --bind
	DATABASE_URL    → --database-url, -d
	DATABASE_TYPE   → --database-type, -t
	LOG_LEVEL       → --log-level
	LOG_FORMAT      → --log-format
	METRICS_ENABLED → --metrics
	VOTEDESK_CONFIG → --config

# YAML

	port: 3318
	databaseUrl: /var/lib/votedesk/desk.db
	logFormat: json
*/
package cliparse
