// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"

	"github.com/danielhkuo/votedesk/models"
)

// ElectionStore reads and writes election records. Implementations return an
// error matching ErrNotFound for unknown ids.
type ElectionStore interface {
	GetElection(ctx context.Context, id int64) (models.Election, error)
	UpdateElection(ctx context.Context, e models.Election) error
	GetOrganization(ctx context.Context, id int64) (models.Organization, error)
}

// BallotStore is the vote record store.
type BallotStore interface {
	InsertBallot(ctx context.Context, b models.Ballot) error
	ListBallots(ctx context.Context, electionID int64, sessionID string) ([]models.Ballot, error)
	ListElectionBallots(ctx context.Context, electionID int64) ([]models.Ballot, error)
	DeleteElectionBallots(ctx context.Context, electionID int64) (int64, error)
}

// VoterStore resolves voter identities.
type VoterStore interface {
	FindVoter(ctx context.Context, orgID int64, voterID string) (models.Voter, error)
	ListVoters(ctx context.Context, orgID int64) ([]models.Voter, error)
}

// CandidateStore lists registered candidates.
type CandidateStore interface {
	ListCandidates(ctx context.Context, orgID int64) ([]models.Candidate, error)
}

// Store is everything the election core needs from persistence.
type Store interface {
	ElectionStore
	BallotStore
	VoterStore
	CandidateStore
}

// Authorizer checks an organization's admin credential.
type Authorizer interface {
	Authorize(ctx context.Context, orgID int64, secret string) (bool, error)
}

// Recorder receives lifecycle and voting events. A nil Recorder is ignored.
type Recorder interface {
	Transition(to models.Status)
	BallotCast(t models.ElectionType)
	Rejected(reason RejectReason)
}

// CandidatesByPosition groups candidates by position, keeping registration order.
func CandidatesByPosition(candidates []models.Candidate) map[string][]models.Candidate {
	out := make(map[string][]models.Candidate)
	for _, c := range candidates {
		out[c.Position] = append(out[c.Position], c)
	}
	return out
}
