// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
)

// ElectionHandler drives the election lifecycle.
type ElectionHandler struct {
	manager *election.Manager
}

func NewElectionHandler(m *election.Manager) *ElectionHandler {
	return &ElectionHandler{manager: m}
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	e, err := h.manager.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to load election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// StartElection handles POST /elections/{id}/start
func (h *ElectionHandler) StartElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	var req models.StartElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.manager.Start(r.Context(), id, election.StartRequest{
		Positions: req.Positions,
		Secret:    req.AdminSecret,
	})
	if err != nil {
		writeError(w, err, "Failed to start election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// PauseElection handles POST /elections/{id}/pause
func (h *ElectionHandler) PauseElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	e, err := h.manager.Pause(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to pause election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// ResumeElection handles POST /elections/{id}/resume
func (h *ElectionHandler) ResumeElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	e, err := h.manager.Resume(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to resume election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// EndElection handles POST /elections/{id}/end
func (h *ElectionHandler) EndElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	var req models.AdminSecretRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	e, err := h.manager.End(r.Context(), id, req.AdminSecret)
	if err != nil {
		writeError(w, err, "Failed to end election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// ReconductElection handles POST /elections/{id}/reconduct
func (h *ElectionHandler) ReconductElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	var req models.ReconductElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Type != "" && !req.Type.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type must be direct, qr or voter_id")
		return
	}

	e, err := h.manager.Reconduct(r.Context(), id, election.ReconductRequest{
		Positions: req.Positions,
		Type:      req.Type,
		Secret:    req.AdminSecret,
	})
	if err != nil {
		writeError(w, err, "Failed to reconduct election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// ClearResults handles DELETE /elections/{id}/results
func (h *ElectionHandler) ClearResults(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	var req models.AdminSecretRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && err != io.EOF {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	deleted, err := h.manager.ClearResults(r.Context(), id, req.AdminSecret)
	if err != nil {
		writeError(w, err, "Failed to clear results")
		return
	}

	slog.Info("results cleared", "election_id", id, "deleted", deleted)
	middleware.JSONResponse(w, http.StatusOK, models.ClearResultsResponse{Deleted: deleted})
}

func electionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid election id")
	}
	return id, ok
}
