// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

// OrgHandler manages organizations and their registries: voters,
// candidates and elections.
type OrgHandler struct {
	store *store.Store
}

func NewOrgHandler(s *store.Store) *OrgHandler {
	return &OrgHandler{store: s}
}

// CreateOrganization handles POST /orgs
func (h *OrgHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrganizationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	hash, err := auth.HashSecret(req.AdminSecret)
	if err == auth.ErrSecretTooShort {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to hash admin secret", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create organization")
		return
	}

	id, err := h.store.CreateOrganization(r.Context(), req.Name, hash)
	if err != nil {
		writeError(w, err, "Failed to create organization")
		return
	}

	slog.Info("organization created", "org_id", id, "name", req.Name)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// CreateVoter handles POST /orgs/{org}/voters. A missing voter_id is
// generated.
func (h *OrgHandler) CreateVoter(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.requireOrg(w, r)
	if !ok {
		return
	}

	var req models.CreateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.VoterID = strings.TrimSpace(req.VoterID)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.VoterID == "" {
		code, err := auth.GenerateVoterCode()
		if err != nil {
			slog.Error("failed to generate voter code", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
			return
		}
		req.VoterID = code
	}

	v := models.Voter{OrgID: orgID, Name: req.Name, VoterID: req.VoterID}
	id, err := h.store.CreateVoter(r.Context(), v)
	if err != nil {
		writeError(w, err, "Failed to register voter")
		return
	}
	v.ID = id

	slog.Info("voter registered", "org_id", orgID, "voter_id", v.VoterID)
	middleware.JSONResponse(w, http.StatusCreated, v)
}

// ListVoters handles GET /orgs/{org}/voters
func (h *OrgHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.requireOrg(w, r)
	if !ok {
		return
	}

	voters, err := h.store.ListVoters(r.Context(), orgID)
	if err != nil {
		writeError(w, err, "Failed to list voters")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}

// CreateCandidate handles POST /orgs/{org}/candidates
func (h *OrgHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.requireOrg(w, r)
	if !ok {
		return
	}

	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Position = strings.TrimSpace(req.Position)
	req.Name = strings.TrimSpace(req.Name)
	if req.Position == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position is required")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	c := models.Candidate{
		OrgID:    orgID,
		Position: req.Position,
		Name:     req.Name,
		Symbol:   req.Symbol,
		Photo:    req.Photo,
	}
	id, err := h.store.CreateCandidate(r.Context(), c)
	if err != nil {
		writeError(w, err, "Failed to add candidate")
		return
	}
	c.ID = id

	slog.Info("candidate added", "org_id", orgID, "position", c.Position, "candidate_id", id)
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// ListCandidates handles GET /orgs/{org}/candidates
func (h *OrgHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.requireOrg(w, r)
	if !ok {
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), orgID)
	if err != nil {
		writeError(w, err, "Failed to list candidates")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// CreateElection handles POST /orgs/{org}/elections
func (h *OrgHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.requireOrg(w, r)
	if !ok {
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if !req.Type.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type must be direct, qr or voter_id")
		return
	}
	positions, msg := cleanPositions(req.Positions)
	if msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	e := models.Election{
		OrgID:           orgID,
		Name:            req.Name,
		Status:          models.StatusNotStarted,
		Positions:       positions,
		ActivePositions: []string{},
		Type:            req.Type,
	}
	id, err := h.store.CreateElection(r.Context(), e)
	if err != nil {
		writeError(w, err, "Failed to create election")
		return
	}

	slog.Info("election created", "org_id", orgID, "election_id", id, "type", req.Type)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// ListElections handles GET /orgs/{org}/elections
func (h *OrgHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.requireOrg(w, r)
	if !ok {
		return
	}

	elections, err := h.store.ListElections(r.Context(), orgID)
	if err != nil {
		writeError(w, err, "Failed to list elections")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}

// requireOrg resolves the {org} path parameter to an existing organization.
func (h *OrgHandler) requireOrg(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orgID, ok := pathID(r, "org")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid organization id")
		return 0, false
	}
	if _, err := h.store.GetOrganization(r.Context(), orgID); err != nil {
		writeError(w, err, "Failed to load organization")
		return 0, false
	}
	return orgID, true
}

// cleanPositions trims position names and rejects empty or repeated ones.
func cleanPositions(in []string) ([]string, string) {
	if len(in) == 0 {
		return nil, "at least one position is required"
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, "position names cannot be empty"
		}
		if seen[p] {
			return nil, "duplicate position " + p
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, ""
}
