// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Election status constants
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Election type constants
type ElectionType string

const (
	TypeDirect  ElectionType = "direct"
	TypeQR      ElectionType = "qr"
	TypeVoterID ElectionType = "voter_id"
)

// Valid reports whether t is a known election type.
func (t ElectionType) Valid() bool {
	switch t {
	case TypeDirect, TypeQR, TypeVoterID:
		return true
	}
	return false
}

// RequiresIdentity is true for types where every ballot belongs to a registered voter.
func (t ElectionType) RequiresIdentity() bool {
	return t == TypeQR || t == TypeVoterID
}

// DirectVoterID is stored as the voter id of anonymous Direct ballots.
const DirectVoterID = "DIRECT"

// MaxCandidatesPerPosition caps candidates per (organization, position).
const MaxCandidatesPerPosition = 10

// Domain types

type Organization struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SecretHash []byte    `json:"-"` // Never expose in JSON
	CreatedAt  time.Time `json:"created_at"`
}

type Voter struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"org_id"`
	Name      string    `json:"name"`
	VoterID   string    `json:"voter_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Candidate struct {
	ID       int64  `json:"id"`
	OrgID    int64  `json:"org_id"`
	Position string `json:"position"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

type Election struct {
	ID              int64        `json:"id"`
	OrgID           int64        `json:"org_id"`
	Name            string       `json:"name"`
	Status          Status       `json:"status"`
	Positions       []string     `json:"positions"`
	ActivePositions []string     `json:"active_positions"`
	Type            ElectionType `json:"type"`
	SessionID       string       `json:"session_id,omitempty"`
	StartTime       *time.Time   `json:"start_time,omitempty"`
	EndTime         *time.Time   `json:"end_time,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// HasPosition reports whether name is one of the election's positions.
func (e Election) HasPosition(name string) bool {
	for _, p := range e.Positions {
		if p == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (e Election) Clone() Election {
	c := e
	c.Positions = append([]string(nil), e.Positions...)
	c.ActivePositions = append([]string(nil), e.ActivePositions...)
	if e.StartTime != nil {
		t := *e.StartTime
		c.StartTime = &t
	}
	if e.EndTime != nil {
		t := *e.EndTime
		c.EndTime = &t
	}
	return c
}

// Votes maps position name -> selected candidate id
type Votes map[string]int64

// Encode serializes votes for storage.
func (v Votes) Encode() (string, error) {
	if v == nil {
		v = Votes{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode votes: %w", err)
	}
	return string(b), nil
}

// DecodeVotes parses a stored votes payload.
func DecodeVotes(payload string) (Votes, error) {
	votes := Votes{}
	if payload == "" {
		return votes, nil
	}
	if err := json.Unmarshal([]byte(payload), &votes); err != nil {
		return nil, fmt.Errorf("failed to decode votes: %w", err)
	}
	return votes, nil
}

type Ballot struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"session_id"`
	ElectionID int64        `json:"election_id"`
	OrgID      int64        `json:"org_id"`
	Votes      Votes        `json:"votes"`
	Type       ElectionType `json:"type"`
	VoterID    string       `json:"voter_id"`
	CastAt     time.Time    `json:"cast_at"`
}

// Request types

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	AdminSecret string `json:"admin_secret"`
}

type CreateVoterRequest struct {
	Name    string `json:"name"`
	VoterID string `json:"voter_id,omitempty"`
}

type CreateCandidateRequest struct {
	Position string `json:"position"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol,omitempty"`
	Photo    string `json:"photo,omitempty"`
}

type CreateElectionRequest struct {
	Name      string       `json:"name"`
	Positions []string     `json:"positions"`
	Type      ElectionType `json:"type"`
}

type StartElectionRequest struct {
	Positions   []string `json:"positions"`
	AdminSecret string   `json:"admin_secret,omitempty"`
}

type ReconductElectionRequest struct {
	Positions   []string     `json:"positions"`
	Type        ElectionType `json:"type"`
	AdminSecret string       `json:"admin_secret"`
}

type AdminSecretRequest struct {
	AdminSecret string `json:"admin_secret"`
}

type OpenBoothRequest struct {
	ElectionID int64 `json:"election_id"`
}

type BeginVoterRequest struct {
	Identifier string `json:"identifier"`
}

type SelectCandidateRequest struct {
	CandidateID int64 `json:"candidate_id"`
}

// Response types

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type ClearResultsResponse struct {
	Deleted int64 `json:"deleted"`
}

type EligibilityResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
	Voter    *Voter `json:"voter,omitempty"`
}

type CandidateResult struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol,omitempty"`
	Votes       int    `json:"votes"`
}

type PositionResult struct {
	Position   string            `json:"position"`
	Candidates []CandidateResult `json:"candidates"`
}

type SessionSummary struct {
	SessionID   string    `json:"session_id"`
	BallotCount int       `json:"ballot_count"`
	FirstCastAt time.Time `json:"first_cast_at"`
	LastCastAt  time.Time `json:"last_cast_at"`
}

type ResultsResponse struct {
	Election    Election         `json:"election"`
	SessionID   string           `json:"session_id"`
	BallotCount int              `json:"ballot_count"`
	Positions   []PositionResult `json:"positions"`
	Voted       []Voter          `json:"voted,omitempty"`
	NotVoted    []Voter          `json:"not_voted,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
