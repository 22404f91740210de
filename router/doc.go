// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the humanpoll API.

# Route Registration

NewRouter wires the store, lifecycle advancer, voting engine and catalog
and returns a configured http.ServeMux:

	reg := prometheus.NewRegistry()
	mux := router.NewRouter(db, cfg, verifier, metrics.New(reg), reg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Voting (public):

	POST /api/vote - Submit a vote with a World ID proof

Reads (public):

	GET /api/polls/live       - Live poll(s) or countdown
	GET /api/results?days=N   - Recent polls with totals

Admin (requires X-Admin-Token):

	POST /api/admin/advance    - Run the lifecycle advancer
	POST /api/admin/reset-vote - Delete votes for moderation
	POST /api/admin/polls      - Create a poll

Every /api route is wrapped with request logging and per-route metrics.
*/
package router
