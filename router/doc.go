// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the votedesk API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, prometheus.NewRegistry())

It builds one election.Manager, so the whole process shares a single voting
booth.

# Endpoints

Health:

	GET /health

Registries:

	POST /orgs                    - Create organization
	POST /orgs/{org}/voters       - Register voter
	GET  /orgs/{org}/voters       - List voters
	POST /orgs/{org}/candidates   - Add candidate (10 per position)
	GET  /orgs/{org}/candidates   - List candidates
	POST /orgs/{org}/elections    - Create election
	GET  /orgs/{org}/elections    - List elections

Election lifecycle:

	GET    /elections/{id}           - Election details
	POST   /elections/{id}/start     - NotStarted → InProgress
	POST   /elections/{id}/pause     - InProgress → Paused
	POST   /elections/{id}/resume    - Paused → InProgress
	POST   /elections/{id}/end       - → Completed (admin secret)
	POST   /elections/{id}/reconduct - Completed → InProgress, new session
	DELETE /elections/{id}/results   - Delete every ballot (admin secret)

Results:

	GET /elections/{id}/sessions          - Session summaries
	GET /elections/{id}/results?session=  - Tally (completed only)

Voting booth:

	POST /booth/open       - Open for an election in progress
	GET  /booth            - Current booth state
	POST /booth/voters     - Eligibility check and new ballot
	POST /booth/select     - Pick a candidate
	POST /booth/advance    - Next position, writes the ballot at the end
	POST /booth/back       - Previous position
	POST /booth/reset      - Clear the current choice
	POST /booth/next-voter - Clear the submitted ballot
	POST /booth/exit       - Close the booth (admin secret)

Metrics (when enabled):

	GET /metrics
*/
package router
