// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
)

// BoothHandler exposes the voting booth to the desk UI.
type BoothHandler struct {
	desk *election.Desk
}

func NewBoothHandler(d *election.Desk) *BoothHandler {
	return &BoothHandler{desk: d}
}

// BeginVoterResponse pairs the eligibility verdict with the booth it left.
type BeginVoterResponse struct {
	Eligibility models.EligibilityResponse `json:"eligibility"`
	Booth       election.BoothState        `json:"booth"`
}

// OpenBooth handles POST /booth/open
func (h *BoothHandler) OpenBooth(w http.ResponseWriter, r *http.Request) {
	var req models.OpenBoothRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ElectionID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return
	}

	state, err := h.desk.Open(r.Context(), req.ElectionID)
	if err != nil {
		writeError(w, err, "Failed to open voting booth")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// GetBooth handles GET /booth
func (h *BoothHandler) GetBooth(w http.ResponseWriter, r *http.Request) {
	state, err := h.desk.State()
	if err != nil {
		writeError(w, err, "Failed to read voting booth")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// BeginVoter handles POST /booth/voters. Ineligible voters get a 200 with
// eligible=false and the reason.
func (h *BoothHandler) BeginVoter(w http.ResponseWriter, r *http.Request) {
	var req models.BeginVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	elig, state, err := h.desk.BeginVoter(r.Context(), strings.TrimSpace(req.Identifier))
	if err != nil {
		writeError(w, err, "Failed to check voter")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, BeginVoterResponse{
		Eligibility: models.EligibilityResponse{
			Eligible: elig.Eligible,
			Reason:   string(elig.Reason),
			Voter:    elig.Voter,
		},
		Booth: state,
	})
}

// SelectCandidate handles POST /booth/select
func (h *BoothHandler) SelectCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.SelectCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	state, err := h.desk.Select(req.CandidateID)
	if err != nil {
		writeError(w, err, "Failed to select candidate")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// Advance handles POST /booth/advance
func (h *BoothHandler) Advance(w http.ResponseWriter, r *http.Request) {
	state, err := h.desk.Advance(r.Context())
	if err != nil {
		writeError(w, err, "Failed to record ballot")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// GoBack handles POST /booth/back
func (h *BoothHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	state, err := h.desk.GoBack()
	if err != nil {
		writeError(w, err, "Failed to go back")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// Reset handles POST /booth/reset
func (h *BoothHandler) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := h.desk.Reset()
	if err != nil {
		writeError(w, err, "Failed to reset selection")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// NextVoter handles POST /booth/next-voter
func (h *BoothHandler) NextVoter(w http.ResponseWriter, r *http.Request) {
	state, err := h.desk.NextVoter()
	if err != nil {
		writeError(w, err, "Failed to reset booth")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}

// ExitBooth handles POST /booth/exit
func (h *BoothHandler) ExitBooth(w http.ResponseWriter, r *http.Request) {
	var req models.AdminSecretRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.desk.Exit(r.Context(), req.AdminSecret); err != nil {
		writeError(w, err, "Failed to close voting booth")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
