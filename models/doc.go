// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Organization: name and bcrypt hash of the admin secret
  - Voter: registered voter with an org-unique voter_id
  - Candidate: contestant for one position (10 per position)
  - Election: positions, status, type and current session
  - Ballot: one voter's choices for one session, never updated

# Status

Elections move through four states:

	not_started → in_progress ⇄ paused → completed → (reconduct) in_progress

# Election Types

	direct    anonymous ballots, voter id "DIRECT"
	qr        voter scans a QR card carrying the voter id
	voter_id  voter types the voter id

QR and voter_id elections allow one ballot per voter per session.

# Votes

Votes maps position name to candidate id and is stored as JSON text:

	{"President": 3, "Secretary": 7}

# Request and Response Types

Request types mirror the JSON bodies of the HTTP API. ErrorResponse is the
envelope of every error:

	{"error": "Not Found", "message": "election 9: not found"}
*/
package models
