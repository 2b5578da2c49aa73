// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/votedesk/models"
)

// Manager runs the election lifecycle:
//
//	NotStarted → InProgress ⇄ Paused
//	InProgress|Paused → Completed → InProgress (reconduct, new session)
//
// Every transition works on a copy of the stored election and writes it
// once. A rejected transition writes nothing.
type Manager struct {
	store    Store
	auth     Authorizer
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
	desk     *Desk
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithRecorder reports transitions, ballots and rejections to r.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a Manager and its voting booth over store.
func NewManager(store Store, auth Authorizer, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		auth:  auth,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.desk = &Desk{m: m}
	return m
}

// Desk returns the single voting booth controller.
func (m *Manager) Desk() *Desk {
	return m.desk
}

type StartRequest struct {
	Positions []string
	Secret    string
}

type ReconductRequest struct {
	Positions []string
	Type      models.ElectionType
	Secret    string
}

// Get loads an election.
func (m *Manager) Get(ctx context.Context, id int64) (models.Election, error) {
	return m.load(ctx, id)
}

// Start opens the first session. Direct elections need the admin secret
// because their ballots are anonymous.
func (m *Manager) Start(ctx context.Context, id int64, req StartRequest) (models.Election, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return models.Election{}, err
	}
	if current.Status != models.StatusNotStarted {
		return models.Election{}, invalid("cannot start an election that is %s", current.Status)
	}
	positions, err := selectPositions(current, req.Positions)
	if err != nil {
		return models.Election{}, err
	}
	if err := m.requireCandidates(ctx, current.OrgID, positions); err != nil {
		return models.Election{}, err
	}
	if current.Type == models.TypeDirect {
		if err := m.authorize(ctx, current.OrgID, req.Secret); err != nil {
			return models.Election{}, err
		}
	}

	next := current.Clone()
	next.ActivePositions = positions
	if next.SessionID == "" {
		sessionID, err := m.nextSession(ctx, next)
		if err != nil {
			return models.Election{}, err
		}
		next.SessionID = sessionID
	}
	now := m.now().UTC()
	next.StartTime = &now
	next.Status = models.StatusInProgress

	return m.commit(ctx, "start", next)
}

// Pause suspends voting. The session and timestamps are untouched.
func (m *Manager) Pause(ctx context.Context, id int64) (models.Election, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return models.Election{}, err
	}
	if current.Status != models.StatusInProgress {
		return models.Election{}, invalid("cannot pause an election that is %s", current.Status)
	}

	next := current.Clone()
	next.Status = models.StatusPaused

	updated, err := m.commit(ctx, "pause", next)
	if err != nil {
		return models.Election{}, err
	}
	m.desk.closeFor(id)
	return updated, nil
}

// Resume reopens a paused election. The start time restarts at the resume
// moment; ballots already cast stay in the session.
func (m *Manager) Resume(ctx context.Context, id int64) (models.Election, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return models.Election{}, err
	}
	if current.Status != models.StatusPaused {
		return models.Election{}, invalid("cannot resume an election that is %s", current.Status)
	}

	next := current.Clone()
	now := m.now().UTC()
	next.StartTime = &now
	next.Status = models.StatusInProgress

	return m.commit(ctx, "resume", next)
}

// End completes the election, which unseals its results.
func (m *Manager) End(ctx context.Context, id int64, secret string) (models.Election, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return models.Election{}, err
	}
	if current.Status != models.StatusInProgress && current.Status != models.StatusPaused {
		return models.Election{}, invalid("cannot end an election that is %s", current.Status)
	}
	if err := m.authorize(ctx, current.OrgID, secret); err != nil {
		return models.Election{}, err
	}

	next := current.Clone()
	now := m.now().UTC()
	next.EndTime = &now
	next.Status = models.StatusCompleted

	updated, err := m.commit(ctx, "end", next)
	if err != nil {
		return models.Election{}, err
	}
	m.desk.closeFor(id)
	return updated, nil
}

// Reconduct runs a completed election again under a new session. Earlier
// sessions keep their ballots. The operator may change the positions and the
// voting mode between runs.
func (m *Manager) Reconduct(ctx context.Context, id int64, req ReconductRequest) (models.Election, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return models.Election{}, err
	}
	if current.Status != models.StatusCompleted {
		return models.Election{}, invalid("cannot reconduct an election that is %s", current.Status)
	}
	positions, err := selectPositions(current, req.Positions)
	if err != nil {
		return models.Election{}, err
	}
	if err := m.requireCandidates(ctx, current.OrgID, positions); err != nil {
		return models.Election{}, err
	}
	electionType := req.Type
	if electionType == "" {
		electionType = current.Type
	}
	if !electionType.Valid() {
		return models.Election{}, invalid("unknown election type %q", req.Type)
	}
	if err := m.authorize(ctx, current.OrgID, req.Secret); err != nil {
		return models.Election{}, err
	}

	sessionID, err := m.nextSession(ctx, current)
	if err != nil {
		return models.Election{}, err
	}

	next := current.Clone()
	next.SessionID = sessionID
	next.ActivePositions = positions
	next.Type = electionType
	now := m.now().UTC()
	next.StartTime = &now
	next.EndTime = nil
	next.Status = models.StatusInProgress

	return m.commit(ctx, "reconduct", next)
}

// ClearResults deletes every ballot of the election across all sessions.
// This cannot be undone.
func (m *Manager) ClearResults(ctx context.Context, id int64, secret string) (int64, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := m.authorize(ctx, current.OrgID, secret); err != nil {
		return 0, err
	}

	deleted, err := m.store.DeleteElectionBallots(ctx, id)
	if err != nil {
		return 0, storageErr("delete ballots", err)
	}

	m.logger.Warn("election results cleared", "election_id", id, "deleted", deleted)
	return deleted, nil
}

// SessionHistory lists every session id the election has used.
func (m *Manager) SessionHistory(ctx context.Context, id int64) ([]string, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.history(ctx, current)
}

// Sessions summarizes the stored sessions of an election, newest first.
func (m *Manager) Sessions(ctx context.Context, id int64) ([]models.SessionSummary, error) {
	if _, err := m.load(ctx, id); err != nil {
		return nil, err
	}
	ballots, err := m.store.ListElectionBallots(ctx, id)
	if err != nil {
		return nil, storageErr("list ballots", err)
	}
	return Sessions(ballots), nil
}

// Results tallies one session of a completed election. An empty sessionID
// selects the latest session.
func (m *Manager) Results(ctx context.Context, id int64, sessionID string) (models.ResultsResponse, error) {
	current, err := m.load(ctx, id)
	if err != nil {
		return models.ResultsResponse{}, err
	}
	if current.Status != models.StatusCompleted {
		return models.ResultsResponse{}, ErrResultsSealed
	}

	all, err := m.store.ListElectionBallots(ctx, id)
	if err != nil {
		return models.ResultsResponse{}, storageErr("list ballots", err)
	}
	if sessionID == "" {
		latest, ok := LatestSession(all)
		if !ok {
			latest = current.SessionID
		}
		sessionID = latest
	}
	ballots := FilterSession(all, sessionID)

	candidates, err := m.store.ListCandidates(ctx, current.OrgID)
	if err != nil {
		return models.ResultsResponse{}, storageErr("list candidates", err)
	}
	byPosition := CandidatesByPosition(candidates)

	response := models.ResultsResponse{
		Election:    current,
		SessionID:   sessionID,
		BallotCount: len(ballots),
		Positions:   Tally(current.Positions, byPosition, ballots).Positions(current.Positions, byPosition),
	}

	sessionType := current.Type
	if len(ballots) > 0 {
		sessionType = ballots[0].Type
	}
	if sessionType.RequiresIdentity() {
		voters, err := m.store.ListVoters(ctx, current.OrgID)
		if err != nil {
			return models.ResultsResponse{}, storageErr("list voters", err)
		}
		response.Voted, response.NotVoted = Participation(voters, ballots)
	}

	return response, nil
}

func (m *Manager) load(ctx context.Context, id int64) (models.Election, error) {
	e, err := m.store.GetElection(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return models.Election{}, fmt.Errorf("election %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Election{}, storageErr("get election", err)
	}
	return e, nil
}

func (m *Manager) authorize(ctx context.Context, orgID int64, secret string) error {
	ok, err := m.auth.Authorize(ctx, orgID, secret)
	if err != nil {
		return storageErr("verify credential", err)
	}
	if !ok {
		return ErrAuthentication
	}
	return nil
}

func (m *Manager) commit(ctx context.Context, op string, next models.Election) (models.Election, error) {
	if err := m.store.UpdateElection(ctx, next); err != nil {
		return models.Election{}, storageErr(op+" election", err)
	}
	if m.recorder != nil {
		m.recorder.Transition(next.Status)
	}
	m.logger.Info("election "+op,
		"election_id", next.ID,
		"status", next.Status,
		"session_id", next.SessionID,
	)
	return next, nil
}

func (m *Manager) history(ctx context.Context, e models.Election) ([]string, error) {
	ballots, err := m.store.ListElectionBallots(ctx, e.ID)
	if err != nil {
		return nil, storageErr("list ballots", err)
	}

	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(e.SessionID)
	for _, b := range ballots {
		add(b.SessionID)
	}
	return ids, nil
}

func (m *Manager) nextSession(ctx context.Context, e models.Election) (string, error) {
	org, err := m.store.GetOrganization(ctx, e.OrgID)
	if err != nil {
		return "", storageErr("get organization", err)
	}
	history, err := m.history(ctx, e)
	if err != nil {
		return "", err
	}
	return NextSessionID(org.Name, e.ID, history), nil
}

// selectPositions validates the positions chosen for a session and returns
// them in the election's own order.
// requireCandidates refuses active positions nobody can be voted for.
func (m *Manager) requireCandidates(ctx context.Context, orgID int64, positions []string) error {
	candidates, err := m.store.ListCandidates(ctx, orgID)
	if err != nil {
		return storageErr("list candidates", err)
	}
	byPosition := CandidatesByPosition(candidates)
	var empty []string
	for _, p := range positions {
		if len(byPosition[p]) == 0 {
			empty = append(empty, p)
		}
	}
	if len(empty) > 0 {
		return invalid("no candidates registered for %s", strings.Join(empty, ", "))
	}
	return nil
}

func selectPositions(e models.Election, chosen []string) ([]string, error) {
	if len(chosen) == 0 {
		return nil, invalid("select at least one position to conduct")
	}
	selected := make(map[string]bool, len(chosen))
	for _, p := range chosen {
		if !e.HasPosition(p) {
			return nil, invalid("unknown position %q", p)
		}
		selected[p] = true
	}
	out := make([]string, 0, len(selected))
	for _, p := range e.Positions {
		if selected[p] {
			out = append(out, p)
		}
	}
	return out, nil
}
