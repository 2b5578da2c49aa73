// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/votedesk/election"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/store"
)

// writeError maps domain errors onto HTTP status codes. Anything not
// recognized is logged and reported as a 500 with the fallback message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var validation *election.ValidationError
	switch {
	case errors.As(err, &validation):
		middleware.ErrorResponse(w, http.StatusBadRequest, validation.Msg)
	case errors.Is(err, election.ErrAuthentication):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin secret")
	case errors.Is(err, election.ErrResultsSealed):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, election.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, election.ErrBallotSubmitted),
		errors.Is(err, election.ErrBoothClosed),
		errors.Is(err, store.ErrCandidateLimit),
		errors.Is(err, store.ErrDuplicateVoterID):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error(fallback, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
