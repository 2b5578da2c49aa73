// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/middleware"
)

// ResultsHandler serves session history and tallies.
type ResultsHandler struct {
	manager *election.Manager
}

func NewResultsHandler(m *election.Manager) *ResultsHandler {
	return &ResultsHandler{manager: m}
}

// GetSessions handles GET /elections/{id}/sessions
func (h *ResultsHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	sessions, err := h.manager.Sessions(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to list sessions")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sessions)
}

// GetResults handles GET /elections/{id}/results?session=
// Results stay sealed until the election is completed.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	results, err := h.manager.Results(r.Context(), id, r.URL.Query().Get("session"))
	if err != nil {
		writeError(w, err, "Failed to compute results")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}
