// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"sync"
	"time"

	"github.com/danielhkuo/votedesk/models"
)

// Desk owns the one voting booth. At most one booth is open at a time and
// one voter uses it at a time.
type Desk struct {
	mu    sync.Mutex
	m     *Manager
	booth *booth
}

type booth struct {
	election   models.Election
	guard      Guard
	candidates map[string][]models.Candidate
	handler    *BallotHandler
	openedAt   time.Time
	cast       int
}

// BoothState is what the voting surface renders.
type BoothState struct {
	ElectionID      int64               `json:"election_id"`
	SessionID       string              `json:"session_id"`
	Type            models.ElectionType `json:"type"`
	ActivePositions []string            `json:"active_positions"`
	OpenedAt        time.Time           `json:"opened_at"`
	BallotsCast     int                 `json:"ballots_cast"`
	Focused         bool                `json:"focused,omitempty"`
	VoterID         string              `json:"voter_id,omitempty"`
	Position        string              `json:"position,omitempty"`
	Candidates      []models.Candidate  `json:"candidates,omitempty"`
	Progress        *Progress           `json:"progress,omitempty"`
	Submitted       bool                `json:"submitted"`
}

// Open opens the booth for an election in progress. If a booth is already
// open it is returned unchanged with Focused set.
func (d *Desk) Open(ctx context.Context, electionID int64) (BoothState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.booth != nil {
		state := d.booth.state()
		state.Focused = true
		return state, nil
	}

	e, err := d.m.load(ctx, electionID)
	if err != nil {
		return BoothState{}, err
	}
	if e.Status != models.StatusInProgress {
		return BoothState{}, invalid("cannot open voting for an election that is %s", e.Status)
	}
	candidates, err := d.m.store.ListCandidates(ctx, e.OrgID)
	if err != nil {
		return BoothState{}, storageErr("list candidates", err)
	}

	d.booth = &booth{
		election:   e,
		guard:      NewGuard(e, d.m.store, d.m.store),
		candidates: CandidatesByPosition(candidates),
		openedAt:   d.m.now().UTC(),
	}
	d.m.logger.Info("voting booth opened",
		"election_id", e.ID,
		"session_id", e.SessionID,
		"type", e.Type,
	)
	return d.booth.state(), nil
}

// State reports the open booth.
func (d *Desk) State() (BoothState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.booth == nil {
		return BoothState{}, ErrBoothClosed
	}
	return d.booth.state(), nil
}

// BeginVoter checks the identifier and, when eligible, starts a fresh ballot
// for that voter. Direct booths ignore the identifier.
func (d *Desk) BeginVoter(ctx context.Context, identifier string) (Eligibility, BoothState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.booth == nil {
		return Eligibility{}, BoothState{}, ErrBoothClosed
	}
	b := d.booth
	if b.handler != nil {
		if b.handler.Submitted() == nil {
			return Eligibility{}, BoothState{}, invalid("a ballot is already in progress")
		}
		return Eligibility{}, BoothState{}, invalid("move to the next voter first")
	}

	elig, err := b.guard.Check(ctx, identifier)
	if err != nil {
		return Eligibility{}, BoothState{}, err
	}
	if !elig.Eligible {
		if d.m.recorder != nil {
			d.m.recorder.Rejected(elig.Reason)
		}
		d.m.logger.Info("voter rejected",
			"election_id", b.election.ID,
			"session_id", b.election.SessionID,
			"reason", elig.Reason,
		)
		return elig, b.state(), nil
	}

	voterID := ""
	if elig.Voter != nil {
		voterID = elig.Voter.VoterID
	}
	b.handler = NewBallotHandler(b.election, voterID, b.candidates, d.m.store)
	b.handler.now = d.m.now
	return elig, b.state(), nil
}

// Select records the voter's tentative choice for the current position.
func (d *Desk) Select(candidateID int64) (BoothState, error) {
	return d.withHandler(func(h *BallotHandler) error {
		return h.Select(candidateID)
	})
}

// Advance moves to the next position, writing the ballot after the last one.
func (d *Desk) Advance(ctx context.Context) (BoothState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.current()
	if err != nil {
		return BoothState{}, err
	}

	if b.handler.Submitted() == nil && b.handler.Position() == lastOf(b.election.ActivePositions) {
		// The ballot must land in a session that is still running.
		e, err := d.m.load(ctx, b.election.ID)
		if err != nil {
			return BoothState{}, err
		}
		if e.Status != models.StatusInProgress || e.SessionID != b.election.SessionID {
			return BoothState{}, invalid("voting for session %s is not in progress", b.election.SessionID)
		}
	}

	done, err := b.handler.Advance(ctx)
	if err != nil {
		return BoothState{}, err
	}
	if done {
		b.cast++
		if d.m.recorder != nil {
			d.m.recorder.BallotCast(b.election.Type)
		}
		d.m.logger.Info("ballot cast",
			"election_id", b.election.ID,
			"session_id", b.election.SessionID,
			"ballot_id", b.handler.Submitted().ID,
		)
	}
	return b.state(), nil
}

// GoBack returns to the previous position.
func (d *Desk) GoBack() (BoothState, error) {
	return d.withHandler(func(h *BallotHandler) error {
		return h.GoBack()
	})
}

// Reset clears the pending choice for the current position.
func (d *Desk) Reset() (BoothState, error) {
	return d.withHandler(func(h *BallotHandler) error {
		return h.Reset()
	})
}

// NextVoter discards the submitted ballot so the next voter can begin.
func (d *Desk) NextVoter() (BoothState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.booth == nil {
		return BoothState{}, ErrBoothClosed
	}
	if h := d.booth.handler; h != nil && h.Submitted() == nil {
		return BoothState{}, invalid("the current ballot has not been submitted")
	}
	d.booth.handler = nil
	return d.booth.state(), nil
}

// Exit closes the booth after checking the admin secret. A ballot that was
// not yet submitted is dropped without a trace.
func (d *Desk) Exit(ctx context.Context, secret string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.booth == nil {
		return ErrBoothClosed
	}
	if err := d.m.authorize(ctx, d.booth.election.OrgID, secret); err != nil {
		return err
	}

	aborted := d.booth.handler != nil && d.booth.handler.Submitted() == nil
	d.m.logger.Info("voting booth closed",
		"election_id", d.booth.election.ID,
		"ballots_cast", d.booth.cast,
		"aborted_ballot", aborted,
	)
	d.booth = nil
	return nil
}

// closeFor closes the booth if it serves electionID.
func (d *Desk) closeFor(electionID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.booth != nil && d.booth.election.ID == electionID {
		d.m.logger.Info("voting booth closed", "election_id", electionID, "ballots_cast", d.booth.cast)
		d.booth = nil
	}
}

func (d *Desk) current() (*booth, error) {
	if d.booth == nil {
		return nil, ErrBoothClosed
	}
	if d.booth.handler == nil {
		return nil, invalid("no voter at the booth")
	}
	return d.booth, nil
}

func (d *Desk) withHandler(fn func(h *BallotHandler) error) (BoothState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.current()
	if err != nil {
		return BoothState{}, err
	}
	if err := fn(b.handler); err != nil {
		return BoothState{}, err
	}
	return b.state(), nil
}

func (b *booth) state() BoothState {
	s := BoothState{
		ElectionID:      b.election.ID,
		SessionID:       b.election.SessionID,
		Type:            b.election.Type,
		ActivePositions: append([]string(nil), b.election.ActivePositions...),
		OpenedAt:        b.openedAt,
		BallotsCast:     b.cast,
	}
	if b.handler != nil {
		p := b.handler.Progress()
		s.VoterID = b.handler.VoterID()
		s.Position = b.handler.Position()
		s.Candidates = b.handler.Candidates()
		s.Progress = &p
		s.Submitted = b.handler.Submitted() != nil
	}
	return s
}

func lastOf(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}
