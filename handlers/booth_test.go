// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync"
	"testing"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/testutil"
)

func TestOpenBooth(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed(t, models.TypeQR)

	w := call(env.booth.GetBooth, testutil.MakeRequest("GET", "/booth", nil, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	open := models.OpenBoothRequest{ElectionID: s.election}
	w = call(env.booth.OpenBooth, testutil.MakeRequest("POST", "/booth/open", open, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = call(env.booth.OpenBooth, testutil.MakeRequest("POST", "/booth/open", models.OpenBoothRequest{}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	env.start(t, s.election, "President")
	w = call(env.booth.OpenBooth, testutil.MakeRequest("POST", "/booth/open", open, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var state election.BoothState
	testutil.AssertJSON(t, w, &state)
	if state.SessionID != "ACME-001-1000" || state.Focused {
		t.Errorf("Unexpected booth state: %+v", state)
	}

	w = call(env.booth.OpenBooth, testutil.MakeRequest("POST", "/booth/open", open, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &state)
	if !state.Focused {
		t.Error("Expected second open to focus the existing booth")
	}
}

func TestBoothVoting(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed(t, models.TypeVoterID)
	env.start(t, s.election, "President", "Secretary")
	w := call(env.booth.OpenBooth, testutil.MakeRequest("POST", "/booth/open", models.OpenBoothRequest{ElectionID: s.election}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	begin := func(identifier string) BeginVoterResponse {
		t.Helper()
		w := call(env.booth.BeginVoter, testutil.MakeRequest("POST", "/booth/voters", models.BeginVoterRequest{Identifier: identifier}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp BeginVoterResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}
	pick := func(id int64) {
		t.Helper()
		w := call(env.booth.SelectCandidate, testutil.MakeRequest("POST", "/booth/select", models.SelectCandidateRequest{CandidateID: id}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		w = call(env.booth.Advance, testutil.MakeRequest("POST", "/booth/advance", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	if resp := begin("nobody"); resp.Eligibility.Eligible || resp.Eligibility.Reason != "invalid_identifier" {
		t.Errorf("Expected invalid_identifier, got %+v", resp.Eligibility)
	}

	resp := begin("v1")
	if !resp.Eligibility.Eligible || resp.Booth.Position != "President" {
		t.Fatalf("Expected V1 at President, got %+v", resp)
	}

	// Secretary candidate is not on the President ballot
	w = call(env.booth.SelectCandidate, testutil.MakeRequest("POST", "/booth/select", models.SelectCandidateRequest{CandidateID: s.secretary[0]}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	pick(s.president[0])
	w = call(env.booth.GoBack, testutil.MakeRequest("POST", "/booth/back", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	w = call(env.booth.Reset, testutil.MakeRequest("POST", "/booth/reset", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	pick(s.president[1])
	pick(s.secretary[0])

	w = call(env.booth.GetBooth, testutil.MakeRequest("GET", "/booth", nil, nil))
	var state election.BoothState
	testutil.AssertJSON(t, w, &state)
	if !state.Submitted || state.BallotsCast != 1 {
		t.Fatalf("Expected submitted ballot, got %+v", state)
	}

	w = call(env.booth.SelectCandidate, testutil.MakeRequest("POST", "/booth/select", models.SelectCandidateRequest{CandidateID: s.president[0]}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = call(env.booth.NextVoter, testutil.MakeRequest("POST", "/booth/next-voter", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if resp := begin("V1"); resp.Eligibility.Eligible || resp.Eligibility.Reason != "already_voted" {
		t.Errorf("Expected already_voted, got %+v", resp.Eligibility)
	}
	if resp := begin("V2"); !resp.Eligibility.Eligible {
		t.Errorf("Expected V2 eligible, got %+v", resp.Eligibility)
	}

	w = call(env.booth.ExitBooth, testutil.MakeRequest("POST", "/booth/exit", models.AdminSecretRequest{AdminSecret: "wrong"}, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	w = call(env.booth.ExitBooth, testutil.MakeRequest("POST", "/booth/exit", models.AdminSecretRequest{AdminSecret: testutil.TestAdminSecret}, nil))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = call(env.booth.GetBooth, testutil.MakeRequest("GET", "/booth", nil, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestConcurrentBeginVoter(t *testing.T) {
	env := newTestEnv(t)
	s := env.seed(t, models.TypeQR)
	env.start(t, s.election, "President")
	call(env.booth.OpenBooth, testutil.MakeRequest("POST", "/booth/open", models.OpenBoothRequest{ElectionID: s.election}, nil))

	const workers = 8
	codes := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := call(env.booth.BeginVoter, testutil.MakeRequest("POST", "/booth/voters", models.BeginVoterRequest{Identifier: "V1"}, nil))
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	ok := 0
	for code := range codes {
		switch code {
		case http.StatusOK:
			ok++
		case http.StatusBadRequest:
		default:
			t.Errorf("Unexpected status %d", code)
		}
	}
	if ok != 1 {
		t.Errorf("Expected exactly one voter at the booth, got %d", ok)
	}
}
