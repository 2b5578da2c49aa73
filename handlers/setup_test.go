// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
	"github.com/danielhkuo/votedesk/testutil"
)

type testEnv struct {
	store     *store.Store
	manager   *election.Manager
	orgs      *OrgHandler
	elections *ElectionHandler
	results   *ResultsHandler
	booth     *BoothHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.New(testutil.SetupTestDB(t))
	m := election.NewManager(st, auth.NewVerifier(st))
	return &testEnv{
		store:     st,
		manager:   m,
		orgs:      NewOrgHandler(st),
		elections: NewElectionHandler(m),
		results:   NewResultsHandler(m),
		booth:     NewBoothHandler(m.Desk()),
	}
}

type seeded struct {
	org       int64
	election  int64
	president [2]int64
	secretary [2]int64
}

// seed creates "Acme Club" with voters V1..V3, two candidates for each of
// President and Secretary, and one election of the given type.
func (env *testEnv) seed(t *testing.T, typ models.ElectionType) seeded {
	t.Helper()
	var s seeded
	s.org = testutil.CreateTestOrg(t, env.store, "Acme Club")
	for _, id := range []string{"V1", "V2", "V3"} {
		testutil.CreateTestVoter(t, env.store, s.org, "Voter "+id, id)
	}
	s.president[0] = testutil.CreateTestCandidate(t, env.store, s.org, "President", "Ada")
	s.president[1] = testutil.CreateTestCandidate(t, env.store, s.org, "President", "Grace")
	s.secretary[0] = testutil.CreateTestCandidate(t, env.store, s.org, "Secretary", "Linus")
	s.secretary[1] = testutil.CreateTestCandidate(t, env.store, s.org, "Secretary", "Ken")
	s.election = testutil.CreateTestElection(t, env.store, s.org, typ, "President", "Secretary")
	return s
}

func (env *testEnv) start(t *testing.T, id int64, positions ...string) {
	t.Helper()
	_, err := env.manager.Start(context.Background(), id, election.StartRequest{
		Positions: positions,
		Secret:    testutil.TestAdminSecret,
	})
	if err != nil {
		t.Fatalf("Failed to start election: %v", err)
	}
}

func withID(r *http.Request, name string, id int64) *http.Request {
	r.SetPathValue(name, strconv.FormatInt(id, 10))
	return r
}

func call(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, r)
	return w
}
