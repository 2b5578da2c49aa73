// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by the handlers.

# Logging

WithLogging records method, path, status and duration of each request:

	mux.HandleFunc("POST /booth/advance", middleware.WithLogging(h.Advance))

# Responses

	middleware.JSONResponse(w, http.StatusOK, state)
	middleware.ErrorResponse(w, http.StatusConflict, "ballot already submitted")

Errors use the models.ErrorResponse envelope:

	{"error": "Conflict", "message": "ballot already submitted"}

# Request Bodies

ParseJSONBody decodes at most 1 MiB and closes the body.

# CORS

CORS answers only loopback origins (http://localhost:5173,
http://127.0.0.1:8080, ...). Requests without an Origin header pass through
untouched.
*/
package middleware
