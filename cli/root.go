// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
)

var version = "dev" // set via ldflags at build time

// app carries the loaded configuration from the root command to its
// subcommands.
type app struct {
	cfg cliparse.Config
}

// NewRootCmd builds the votedesk command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "votedesk",
		Short: "Offline election desk",
		Long: `votedesk runs elections for a single organization on one machine.
It keeps voters, candidates, elections and ballots in a local database and
serves the desk UI's API.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.SetDefault(cliparse.NewLogger(cfg, cmd.ErrOrStderr()))
			return nil
		},
	}

	cliparse.RegisterFlags(root.PersistentFlags())

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.sessionsCmd())
	root.AddCommand(a.resultsCmd())
	return root
}

// openDB connects and makes sure the schema exists.
func (a *app) openDB() (*sql.DB, error) {
	conn, err := db.Open(a.cfg.DatabaseType, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn, a.cfg.DatabaseType); err != nil {
		conn.Close()
		return nil, fmt.Errorf("schema creation failed: %w", err)
	}
	return conn, nil
}
