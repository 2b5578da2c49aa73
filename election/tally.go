// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"sort"

	"github.com/danielhkuo/votedesk/models"
)

// Result maps position -> candidate id -> votes.
type Result map[string]map[int64]int

// Tally counts ballots for the given positions. Every known candidate starts
// at zero. Votes for positions or candidates the election no longer knows
// are skipped so old ballots survive renames and deletions.
func Tally(positions []string, candidates map[string][]models.Candidate, ballots []models.Ballot) Result {
	result := make(Result, len(positions))
	for _, position := range positions {
		counts := make(map[int64]int, len(candidates[position]))
		for _, c := range candidates[position] {
			counts[c.ID] = 0
		}
		result[position] = counts
	}

	for _, b := range ballots {
		for position, candidateID := range b.Votes {
			counts, ok := result[position]
			if !ok {
				continue
			}
			if _, ok := counts[candidateID]; !ok {
				continue
			}
			counts[candidateID]++
		}
	}

	return result
}

// Ranked lists a position's candidates by votes, highest first. Ties keep
// the order of candidates.
func (r Result) Ranked(position string, candidates []models.Candidate) []models.CandidateResult {
	counts := r[position]
	out := make([]models.CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.CandidateResult{
			CandidateID: c.ID,
			Name:        c.Name,
			Symbol:      c.Symbol,
			Votes:       counts[c.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Votes > out[j].Votes
	})
	return out
}

// Positions renders the result for display in election position order.
func (r Result) Positions(positions []string, candidates map[string][]models.Candidate) []models.PositionResult {
	out := make([]models.PositionResult, 0, len(positions))
	for _, position := range positions {
		out = append(out, models.PositionResult{
			Position:   position,
			Candidates: r.Ranked(position, candidates[position]),
		})
	}
	return out
}

// Sessions summarizes ballots per session, most recently active first.
func Sessions(ballots []models.Ballot) []models.SessionSummary {
	byID := make(map[string]*models.SessionSummary)
	var order []string
	for _, b := range ballots {
		s, ok := byID[b.SessionID]
		if !ok {
			s = &models.SessionSummary{SessionID: b.SessionID, FirstCastAt: b.CastAt, LastCastAt: b.CastAt}
			byID[b.SessionID] = s
			order = append(order, b.SessionID)
		}
		s.BallotCount++
		if b.CastAt.Before(s.FirstCastAt) {
			s.FirstCastAt = b.CastAt
		}
		if b.CastAt.After(s.LastCastAt) {
			s.LastCastAt = b.CastAt
		}
	}

	out := make([]models.SessionSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastCastAt.After(out[j].LastCastAt)
	})
	return out
}

// LatestSession returns the session whose newest ballot is the most recent.
func LatestSession(ballots []models.Ballot) (string, bool) {
	sessions := Sessions(ballots)
	if len(sessions) == 0 {
		return "", false
	}
	return sessions[0].SessionID, true
}

// FilterSession keeps the ballots of one session.
func FilterSession(ballots []models.Ballot, sessionID string) []models.Ballot {
	var out []models.Ballot
	for _, b := range ballots {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	return out
}

// Participation splits voters into those with a ballot in ballots and those
// without. Matching follows HasVoted.
func Participation(voters []models.Voter, ballots []models.Ballot) (voted, notVoted []models.Voter) {
	for _, v := range voters {
		if HasVoted(v.VoterID, ballots) {
			voted = append(voted, v)
		} else {
			notVoted = append(notVoted, v)
		}
	}
	return voted, notVoted
}
