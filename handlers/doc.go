// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the humanpoll API.

# Handler Types

Each handler is a struct over the service it exposes:

  - VotingHandler: vote submission through the admission engine
  - PollHandler: today's live poll(s) or the countdown to the next one
  - ResultsHandler: recent polls with their totals
  - AdminHandler: lifecycle advance, vote reset and poll creation

	votingHandler := handlers.NewVotingHandler(engine)
	pollHandler := handlers.NewPollHandler(catalog)

# Voting

	POST /api/vote → SubmitVote

The engine's outcome decides the status:

	accepted             200 {optionTotals, totalVotes}
	duplicate            409 {optionTotals, totalVotes}
	invalid_request      400 {error}
	invalid_option       400 {error}
	not_found            404 {error}
	verification_failed  401 {error}
	closed               403 {error}
	insert_failed        500 {error}

Accepted and duplicate bodies have the same shape. Error bodies carry the
outcome code and a fixed message; store and verifier errors are only logged.

# Reads

	GET /api/polls/live      → GetLive
	GET /api/results?days=N  → List (days 1..90, default 7)

# Admin

Admin operations require the X-Admin-Token header. Without a configured
token they answer 500 admin_disabled.

	POST /api/admin/advance    → Advance
	POST /api/admin/reset-vote → ResetVote
	POST /api/admin/polls      → CreatePoll
*/
package handlers
