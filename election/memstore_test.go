// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/votedesk/models"
)

// memStore is an in-memory Store with switchable write failures.
type memStore struct {
	mu         sync.Mutex
	orgs       map[int64]models.Organization
	elections  map[int64]models.Election
	voters     []models.Voter
	candidates []models.Candidate
	ballots    []models.Ballot

	failUpdate error
	failInsert error
	failList   error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		orgs:      make(map[int64]models.Organization),
		elections: make(map[int64]models.Election),
	}
}

func (s *memStore) GetElection(_ context.Context, id int64) (models.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.elections[id]
	if !ok {
		return models.Election{}, fmt.Errorf("election %d: %w", id, ErrNotFound)
	}
	return e.Clone(), nil
}

func (s *memStore) UpdateElection(_ context.Context, e models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return s.failUpdate
	}
	if _, ok := s.elections[e.ID]; !ok {
		return fmt.Errorf("election %d: %w", e.ID, ErrNotFound)
	}
	s.elections[e.ID] = e.Clone()
	return nil
}

func (s *memStore) GetOrganization(_ context.Context, id int64) (models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	org, ok := s.orgs[id]
	if !ok {
		return models.Organization{}, fmt.Errorf("organization %d: %w", id, ErrNotFound)
	}
	return org, nil
}

func (s *memStore) InsertBallot(_ context.Context, b models.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return s.failInsert
	}
	s.ballots = append(s.ballots, b)
	return nil
}

func (s *memStore) ListBallots(_ context.Context, electionID int64, sessionID string) ([]models.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	var out []models.Ballot
	for _, b := range s.ballots {
		if b.ElectionID == electionID && b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) ListElectionBallots(_ context.Context, electionID int64) ([]models.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	var out []models.Ballot
	for _, b := range s.ballots {
		if b.ElectionID == electionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memStore) DeleteElectionBallots(_ context.Context, electionID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.ballots[:0]
	var n int64
	for _, b := range s.ballots {
		if b.ElectionID == electionID {
			n++
			continue
		}
		kept = append(kept, b)
	}
	s.ballots = kept
	return n, nil
}

func (s *memStore) FindVoter(_ context.Context, orgID int64, voterID string) (models.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voters {
		if v.OrgID == orgID && strings.EqualFold(v.VoterID, voterID) {
			return v, nil
		}
	}
	return models.Voter{}, fmt.Errorf("voter %q: %w", voterID, ErrNotFound)
}

func (s *memStore) ListVoters(_ context.Context, orgID int64) ([]models.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Voter
	for _, v := range s.voters {
		if v.OrgID == orgID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memStore) ListCandidates(_ context.Context, orgID int64) ([]models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Candidate
	for _, c := range s.candidates {
		if c.OrgID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) ballotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ballots)
}

// secrets authorizes by plain-text secret per organization.
type secrets map[int64]string

func (s secrets) Authorize(_ context.Context, orgID int64, secret string) (bool, error) {
	want, ok := s[orgID]
	return ok && secret != "" && secret == want, nil
}

// recorder counts events.
type recorder struct {
	mu          sync.Mutex
	transitions []models.Status
	cast        int
	rejected    []RejectReason
}

func (r *recorder) Transition(to models.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, to)
}

func (r *recorder) BallotCast(models.ElectionType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cast++
}

func (r *recorder) Rejected(reason RejectReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

const (
	testOrg    = int64(1)
	testSecret = "s3cret"
)

// fixture is an "Acme Club" organization with a President/Secretary
// election (id 7), two candidates per position and voters V1..V3.
type fixture struct {
	store    *memStore
	manager  *Manager
	recorder *recorder
	clock    *time.Time
}

func newFixture(typ models.ElectionType) *fixture {
	s := newMemStore()
	s.orgs[testOrg] = models.Organization{ID: testOrg, Name: "Acme Club"}
	s.elections[7] = models.Election{
		ID:              7,
		OrgID:           testOrg,
		Name:            "Board",
		Status:          models.StatusNotStarted,
		Positions:       []string{"President", "Secretary"},
		ActivePositions: []string{},
		Type:            typ,
	}
	s.candidates = []models.Candidate{
		{ID: 5, OrgID: testOrg, Position: "President", Name: "Ada"},
		{ID: 6, OrgID: testOrg, Position: "President", Name: "Grace"},
		{ID: 9, OrgID: testOrg, Position: "Secretary", Name: "Linus"},
		{ID: 10, OrgID: testOrg, Position: "Secretary", Name: "Ken"},
	}
	s.voters = []models.Voter{
		{ID: 1, OrgID: testOrg, Name: "Voter One", VoterID: "V1"},
		{ID: 2, OrgID: testOrg, Name: "Voter Two", VoterID: "V2"},
		{ID: 3, OrgID: testOrg, Name: "Voter Three", VoterID: "V3"},
	}

	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	f := &fixture{store: s, recorder: &recorder{}, clock: &clock}
	f.manager = NewManager(s, secrets{testOrg: testSecret},
		WithRecorder(f.recorder),
		WithClock(func() time.Time {
			*f.clock = f.clock.Add(time.Second)
			return *f.clock
		}),
	)
	return f
}

func (f *fixture) election(id int64) models.Election {
	e, _ := f.store.GetElection(context.Background(), id)
	return e
}

// addPosition gives election id a position with no candidates.
func (f *fixture) addPosition(id int64, position string) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	e := f.store.elections[id]
	e.Positions = append(append([]string{}, e.Positions...), position)
	f.store.elections[id] = e
}
