// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs method, path, status and duration_ms on completion. Request bodies and
headers are never logged.

# Metrics

Count responses per route pattern and status code:

	mux.HandleFunc(pattern, middleware.WithMetrics(m, pattern, handler))

# CORS Middleware

Enable cross-origin requests for the frontend using rs/cors:

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigins, mux),
	}

Allows GET, POST and OPTIONS with headers Content-Type, Authorization and
X-Admin-Token. Credentials are only allowed for explicit origins.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "")

Error bodies carry a stable code in "error" and an optional human message.

Parse JSON request bodies:

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "")
		return
	}

Bodies are capped at 64 KiB.
*/
package middleware
