// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/testutil"
)

func TestCreateOrganization(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		body           any
		expectedStatus int
	}{
		{"valid organization", models.CreateOrganizationRequest{Name: "Acme Club", AdminSecret: "s3cret"}, http.StatusCreated},
		{"missing name", models.CreateOrganizationRequest{AdminSecret: "s3cret"}, http.StatusBadRequest},
		{"blank name", models.CreateOrganizationRequest{Name: "   ", AdminSecret: "s3cret"}, http.StatusBadRequest},
		{"short secret", models.CreateOrganizationRequest{Name: "Acme Club", AdminSecret: "abc"}, http.StatusBadRequest},
		{"invalid JSON", "not json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/orgs", tt.body, nil)
			w := call(env.orgs.CreateOrganization, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreatedResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == 0 {
					t.Error("Expected organization id")
				}
			}
		})
	}
}

func TestCreateVoter(t *testing.T) {
	env := newTestEnv(t)
	org := testutil.CreateTestOrg(t, env.store, "Acme Club")
	testutil.CreateTestVoter(t, env.store, org, "Existing", "V1")

	tests := []struct {
		name           string
		org            int64
		body           any
		expectedStatus int
	}{
		{"with voter id", org, models.CreateVoterRequest{Name: "Two", VoterID: "V2"}, http.StatusCreated},
		{"generated voter id", org, models.CreateVoterRequest{Name: "Three"}, http.StatusCreated},
		{"duplicate voter id", org, models.CreateVoterRequest{Name: "Dup", VoterID: "v1"}, http.StatusConflict},
		{"missing name", org, models.CreateVoterRequest{VoterID: "V4"}, http.StatusBadRequest},
		{"unknown organization", org + 50, models.CreateVoterRequest{Name: "Lost", VoterID: "V5"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withID(testutil.MakeRequest("POST", "/orgs/x/voters", tt.body, nil), "org", tt.org)
			w := call(env.orgs.CreateVoter, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var v models.Voter
				testutil.AssertJSON(t, w, &v)
				if v.VoterID == "" || v.ID == 0 {
					t.Errorf("Expected stored voter, got %+v", v)
				}
			}
		})
	}

	req := withID(testutil.MakeRequest("GET", "/orgs/x/voters", nil, nil), "org", org)
	w := call(env.orgs.ListVoters, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var voters []models.Voter
	testutil.AssertJSON(t, w, &voters)
	if len(voters) != 3 {
		t.Errorf("Expected 3 voters, got %d", len(voters))
	}
}

func TestCreateCandidate_Limit(t *testing.T) {
	env := newTestEnv(t)
	org := testutil.CreateTestOrg(t, env.store, "Acme Club")

	for i := 0; i < models.MaxCandidatesPerPosition; i++ {
		body := models.CreateCandidateRequest{Position: "President", Name: "Candidate"}
		w := call(env.orgs.CreateCandidate, withID(testutil.MakeRequest("POST", "/orgs/x/candidates", body, nil), "org", org))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	body := models.CreateCandidateRequest{Position: "President", Name: "Eleventh"}
	w := call(env.orgs.CreateCandidate, withID(testutil.MakeRequest("POST", "/orgs/x/candidates", body, nil), "org", org))
	testutil.AssertStatus(t, w, http.StatusConflict)

	body = models.CreateCandidateRequest{Name: "No position"}
	w = call(env.orgs.CreateCandidate, withID(testutil.MakeRequest("POST", "/orgs/x/candidates", body, nil), "org", org))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = call(env.orgs.ListCandidates, withID(testutil.MakeRequest("GET", "/orgs/x/candidates", nil, nil), "org", org))
	testutil.AssertStatus(t, w, http.StatusOK)
	var candidates []models.Candidate
	testutil.AssertJSON(t, w, &candidates)
	if len(candidates) != models.MaxCandidatesPerPosition {
		t.Errorf("Expected %d candidates, got %d", models.MaxCandidatesPerPosition, len(candidates))
	}
}

func TestCreateElection(t *testing.T) {
	env := newTestEnv(t)
	org := testutil.CreateTestOrg(t, env.store, "Acme Club")

	tests := []struct {
		name           string
		body           models.CreateElectionRequest
		expectedStatus int
	}{
		{"valid", models.CreateElectionRequest{Name: "Board", Positions: []string{"President", "Secretary"}, Type: models.TypeQR}, http.StatusCreated},
		{"missing name", models.CreateElectionRequest{Positions: []string{"President"}, Type: models.TypeQR}, http.StatusBadRequest},
		{"no positions", models.CreateElectionRequest{Name: "Board", Type: models.TypeQR}, http.StatusBadRequest},
		{"duplicate position", models.CreateElectionRequest{Name: "Board", Positions: []string{"President", "President"}, Type: models.TypeQR}, http.StatusBadRequest},
		{"unknown type", models.CreateElectionRequest{Name: "Board", Positions: []string{"President"}, Type: "postal"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withID(testutil.MakeRequest("POST", "/orgs/x/elections", tt.body, nil), "org", org)
			w := call(env.orgs.CreateElection, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	w := call(env.orgs.ListElections, withID(testutil.MakeRequest("GET", "/orgs/x/elections", nil, nil), "org", org))
	testutil.AssertStatus(t, w, http.StatusOK)
	var elections []models.Election
	testutil.AssertJSON(t, w, &elections)
	if len(elections) != 1 || elections[0].Status != models.StatusNotStarted {
		t.Errorf("Expected one not_started election, got %+v", elections)
	}
}

func TestInvalidOrgID(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.MakeRequest("GET", "/orgs/abc/voters", nil, nil)
	req.SetPathValue("org", "abc")
	w := call(env.orgs.ListVoters, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
