// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/votedesk/models"
)

// Progress is one voter's pass through the active positions.
type Progress struct {
	Index   int          `json:"index"`
	Votes   models.Votes `json:"votes"`
	Pending *int64       `json:"pending,omitempty"`
}

// BallotHandler walks one voter through the active positions and writes
// their ballot once the last position is advanced. A handler serves exactly
// one voter; the booth creates a new one for the next voter.
type BallotHandler struct {
	election   models.Election
	voterID    string
	candidates map[string][]models.Candidate
	ballots    BallotStore
	now        func() time.Time

	progress  Progress
	submitted *models.Ballot
}

// NewBallotHandler starts a pass for voterID. For Direct elections the voter
// id is replaced by models.DirectVoterID.
func NewBallotHandler(e models.Election, voterID string, candidates map[string][]models.Candidate, ballots BallotStore) *BallotHandler {
	if !e.Type.RequiresIdentity() {
		voterID = models.DirectVoterID
	}
	return &BallotHandler{
		election:   e.Clone(),
		voterID:    voterID,
		candidates: candidates,
		ballots:    ballots,
		now:        time.Now,
		progress:   Progress{Votes: models.Votes{}},
	}
}

// VoterID is the id written on the ballot.
func (h *BallotHandler) VoterID() string { return h.voterID }

// Progress returns a copy of the current pass state.
func (h *BallotHandler) Progress() Progress {
	p := Progress{Index: h.progress.Index, Votes: make(models.Votes, len(h.progress.Votes))}
	for k, v := range h.progress.Votes {
		p.Votes[k] = v
	}
	if h.progress.Pending != nil {
		id := *h.progress.Pending
		p.Pending = &id
	}
	return p
}

// Position is the position currently being voted on, or "" once submitted.
func (h *BallotHandler) Position() string {
	if h.submitted != nil || h.progress.Index >= len(h.election.ActivePositions) {
		return ""
	}
	return h.election.ActivePositions[h.progress.Index]
}

// Candidates lists the candidates for the current position.
func (h *BallotHandler) Candidates() []models.Candidate {
	return h.candidates[h.Position()]
}

// Submitted returns the written ballot, or nil while the pass is open.
func (h *BallotHandler) Submitted() *models.Ballot {
	return h.submitted
}

// Select records a tentative choice for the current position.
func (h *BallotHandler) Select(candidateID int64) error {
	if h.submitted != nil {
		return ErrBallotSubmitted
	}
	position := h.Position()
	if position == "" {
		return invalid("no position to vote on")
	}
	if !containsCandidate(h.candidates[position], candidateID) {
		return invalid("candidate %d does not stand for %s", candidateID, position)
	}
	h.progress.Pending = &candidateID
	return nil
}

// Advance commits the pending choice and moves to the next position. On the
// last position it writes the ballot and reports done. A failed write keeps
// the pending choice so the voter can retry.
func (h *BallotHandler) Advance(ctx context.Context) (done bool, err error) {
	if h.submitted != nil {
		return true, ErrBallotSubmitted
	}
	if h.progress.Pending == nil {
		return false, invalid("select a candidate for %s first", h.Position())
	}

	position := h.Position()
	last := h.progress.Index == len(h.election.ActivePositions)-1
	if !last {
		h.progress.Votes[position] = *h.progress.Pending
		h.progress.Index++
		h.progress.Pending = h.restore(h.Position())
		return false, nil
	}

	votes := make(models.Votes, len(h.progress.Votes)+1)
	for k, v := range h.progress.Votes {
		votes[k] = v
	}
	votes[position] = *h.progress.Pending

	ballot := models.Ballot{
		ID:         uuid.NewString(),
		SessionID:  h.election.SessionID,
		ElectionID: h.election.ID,
		OrgID:      h.election.OrgID,
		Votes:      votes,
		Type:       h.election.Type,
		VoterID:    h.voterID,
		CastAt:     h.now().UTC(),
	}
	if err := h.ballots.InsertBallot(ctx, ballot); err != nil {
		return false, storageErr("insert ballot", err)
	}

	h.progress.Votes = votes
	h.progress.Pending = nil
	h.submitted = &ballot
	return true, nil
}

// GoBack returns to the previous position with its earlier choice pending.
func (h *BallotHandler) GoBack() error {
	if h.submitted != nil {
		return ErrBallotSubmitted
	}
	if h.progress.Index == 0 {
		return invalid("already at the first position")
	}
	h.progress.Index--
	h.progress.Pending = h.restore(h.Position())
	return nil
}

// Reset clears the pending choice for the current position only.
func (h *BallotHandler) Reset() error {
	if h.submitted != nil {
		return ErrBallotSubmitted
	}
	h.progress.Pending = nil
	return nil
}

func (h *BallotHandler) restore(position string) *int64 {
	id, ok := h.progress.Votes[position]
	if !ok {
		return nil
	}
	return &id
}

func containsCandidate(candidates []models.Candidate, id int64) bool {
	for _, c := range candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}
