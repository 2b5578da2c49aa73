// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

func (a *app) sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions <election-id>",
		Short: "List the voting sessions of an election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseElectionID(args[0])
			if err != nil {
				return err
			}
			return a.withManager(func(m *election.Manager) error {
				sessions, err := m.Sessions(cmd.Context(), id)
				if err != nil {
					return err
				}
				printSessions(cmd.OutOrStdout(), sessions)
				return nil
			})
		},
	}
}

func (a *app) resultsCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "results <election-id>",
		Short: "Print the tally of a completed election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseElectionID(args[0])
			if err != nil {
				return err
			}
			return a.withManager(func(m *election.Manager) error {
				results, err := m.Results(cmd.Context(), id, sessionID)
				if err != nil {
					return err
				}
				printResults(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id (default: latest)")
	return cmd
}

func (a *app) withManager(fn func(m *election.Manager) error) error {
	conn, err := a.openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	st := store.New(conn)
	return fn(election.NewManager(st, auth.NewVerifier(st), election.WithLogger(slog.Default())))
}

func parseElectionID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid election id %q", s)
	}
	return id, nil
}

func printSessions(w io.Writer, sessions []models.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No ballots recorded")
		return
	}
	fmt.Fprintf(w, "%-20s  %8s  %s\n", "SESSION", "BALLOTS", "LAST BALLOT")
	for _, s := range sessions {
		fmt.Fprintf(w, "%-20s  %8s  %s\n",
			s.SessionID,
			humanize.Comma(int64(s.BallotCount)),
			humanize.Time(s.LastCastAt),
		)
	}
}

func printResults(w io.Writer, r models.ResultsResponse) {
	fmt.Fprintf(w, "%s (%s)\n", r.Election.Name, r.SessionID)
	fmt.Fprintf(w, "Ballots: %s\n", humanize.Comma(int64(r.BallotCount)))
	for _, p := range r.Positions {
		fmt.Fprintf(w, "\n%s\n", p.Position)
		for i, c := range p.Candidates {
			fmt.Fprintf(w, "  %-4s %-30s %8s\n", humanize.Ordinal(i+1), c.Name, humanize.Comma(int64(c.Votes)))
		}
	}
	if r.Voted != nil || r.NotVoted != nil {
		fmt.Fprintf(w, "\nTurnout: %d of %d registered voters\n", len(r.Voted), len(r.Voted)+len(r.NotVoted))
	}
}
