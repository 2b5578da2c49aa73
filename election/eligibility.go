// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"strings"

	"github.com/danielhkuo/votedesk/models"
)

// RejectReason explains why a voter may not cast a ballot.
type RejectReason string

const (
	RejectInvalidIdentifier RejectReason = "invalid_identifier"
	RejectAlreadyVoted      RejectReason = "already_voted"
)

// Eligibility is the outcome of a guard check. Rejections are values, not errors.
type Eligibility struct {
	Eligible bool
	Voter    *models.Voter
	Reason   RejectReason
}

// Guard decides whether a voter may cast a ballot in one session.
// The error return is reserved for storage failures.
type Guard interface {
	Check(ctx context.Context, identifier string) (Eligibility, error)
}

// NewGuard picks the guard strategy for the election's type.
func NewGuard(e models.Election, voters VoterStore, ballots BallotStore) Guard {
	if !e.Type.RequiresIdentity() {
		return directGuard{}
	}
	return &registryGuard{
		orgID:      e.OrgID,
		electionID: e.ID,
		sessionID:  e.SessionID,
		voters:     voters,
		ballots:    ballots,
	}
}

// directGuard admits every ballot anonymously.
type directGuard struct{}

func (directGuard) Check(context.Context, string) (Eligibility, error) {
	return Eligibility{Eligible: true}, nil
}

// registryGuard looks the voter up in the organization and refuses voters
// that already have a ballot in the session.
//
// Check and the later ballot write are not atomic. Only one booth is open and
// one voter uses it at a time, so nothing can slip in between.
type registryGuard struct {
	orgID      int64
	electionID int64
	sessionID  string
	voters     VoterStore
	ballots    BallotStore
}

func (g *registryGuard) Check(ctx context.Context, identifier string) (Eligibility, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Eligibility{Reason: RejectInvalidIdentifier}, nil
	}

	voter, err := g.voters.FindVoter(ctx, g.orgID, identifier)
	if errors.Is(err, ErrNotFound) {
		return Eligibility{Reason: RejectInvalidIdentifier}, nil
	}
	if err != nil {
		return Eligibility{}, storageErr("find voter", err)
	}

	ballots, err := g.ballots.ListBallots(ctx, g.electionID, g.sessionID)
	if err != nil {
		return Eligibility{}, storageErr("list ballots", err)
	}
	if HasVoted(voter.VoterID, ballots) {
		return Eligibility{Voter: &voter, Reason: RejectAlreadyVoted}, nil
	}

	return Eligibility{Eligible: true, Voter: &voter}, nil
}

// HasVoted reports whether any ballot carries voterID, ignoring case.
func HasVoted(voterID string, ballots []models.Ballot) bool {
	for _, b := range ballots {
		if strings.EqualFold(b.VoterID, voterID) {
			return true
		}
	}
	return false
}
