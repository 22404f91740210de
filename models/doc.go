// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - VoteRequest: pollId, optionIdx, proof
  - Proof: merkle_root, nullifier_hash, proof, verification_level
  - CreatePollRequest: question, options, start_ts, end_ts (admin)
  - ResetVoteRequest: pollId, nullifierHash, all (admin)

# Response Types

Types for JSON responses:

  - VoteResponse: optionTotals, totalVotes (200 and 409 share it)
  - LivePollsResponse: polls, or startsInSeconds countdown
  - PollResult: poll plus its aggregate
  - AdvanceResponse, ResetVoteResponse, CreatePollResponse (admin)
  - ErrorResponse: error, message

# Domain Types

  - Poll: question, ordered options, voting window, cached status
  - Vote: one row per (poll, nullifier)
  - Aggregate: per-option totals derived from votes
  - Verification: verifier verdict and nullifier
  - VoteResult: admission outcome plus aggregate

# Constants

Status values:

	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusClosed    = "closed"

Vote outcomes:

	OutcomeAccepted, OutcomeDuplicate, OutcomeInvalidRequest,
	OutcomeInvalidOption, OutcomeNotFound, OutcomeClosed,
	OutcomeVerificationFailed, OutcomeInsertFailed
*/
package models
