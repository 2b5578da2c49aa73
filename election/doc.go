// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the election desk: lifecycle, voter
eligibility, ballot casting and tallying.

# Lifecycle

Manager moves an election through its statuses:

	NotStarted ──Start──▶ InProgress ──Pause──▶ Paused
	                      InProgress ◀─Resume── Paused
	InProgress|Paused ──End──▶ Completed ──Reconduct──▶ InProgress

Start on a Direct election, End, Reconduct and ClearResults require the
organization's admin secret, checked through an Authorizer. Every
transition either writes the whole updated election or nothing.

# Sessions

Each run of an election is a session. Session ids look like ACME-007-1000:
four characters of the organization name, the election id and a counter
that grows by one per run:

	id := election.NextSessionID("Acme Club", 7, history) // ACME-007-1000

Reconduct derives the next id from every session the election has used, so
ids never repeat and earlier ballots stay addressable.

# Voting

Desk owns the single voting booth. A booth serves one voter at a time:

	desk := manager.Desk()
	desk.Open(ctx, electionID)
	elig, _, err := desk.BeginVoter(ctx, "V1") // Guard check
	desk.Select(candidateID)
	desk.Advance(ctx) // writes the ballot after the last position
	desk.NextVoter()

QR and VoterID elections look the voter up and refuse voters that already
voted in the session. Direct elections accept anonymous ballots.

# Tally

Tally counts one session's ballots per position and candidate. Unknown
positions and candidates are skipped so old ballots stay valid.
*/
package election
