// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the votedesk API.

# Handler Types

Each handler is a struct over the store or the election manager:

  - OrgHandler: Organizations, voters, candidates and elections
  - ElectionHandler: Election lifecycle (start, pause, resume, end, reconduct)
  - ResultsHandler: Session summaries and tallies
  - BoothHandler: The voting booth, one voter at a time

	manager := election.NewManager(st, auth.NewVerifier(st))
	boothHandler := handlers.NewBoothHandler(manager.Desk())

# Election Lifecycle

	not_started → in_progress ⇄ paused
	in_progress | paused → completed
	completed → in_progress (reconduct, new session id)

Ending, reconducting, clearing results and closing the booth take the
organization's admin secret in the request body. Starting a Direct election
does too.

# Voting Booth

	POST /booth/voters  → BeginVoter (eligibility, 200 even when refused)
	POST /booth/select  → SelectCandidate
	POST /booth/advance → Advance (the last position writes the ballot)

# Errors

Domain errors map to status codes in one place, writeError:

	400 validation    401 admin secret    403 results sealed
	404 not found     409 conflicting state
*/
package handlers
