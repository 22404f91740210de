package models

import "time"

// Poll status constants
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusClosed    = "closed"
)

// Vote outcome constants. The error-like ones double as the "error" field
// of the JSON error response.
const (
	OutcomeAccepted           = "accepted"
	OutcomeDuplicate          = "duplicate"
	OutcomeInvalidRequest     = "invalid_request"
	OutcomeInvalidOption      = "invalid_option"
	OutcomeNotFound           = "not_found"
	OutcomeClosed             = "closed"
	OutcomeVerificationFailed = "verification_failed"
	OutcomeInsertFailed       = "insert_failed"
)

// Verification levels reported by the World ID widget
const (
	VerificationOrb    = "orb"
	VerificationDevice = "device"
)

// Request types

// Proof is the payload produced by the proof-of-personhood widget. It is
// forwarded to the verifier untouched apart from the action and signal.
type Proof struct {
	MerkleRoot        string `json:"merkle_root"`
	NullifierHash     string `json:"nullifier_hash"`
	Proof             string `json:"proof"`
	VerificationLevel string `json:"verification_level"`
}

// OptionIdx is a pointer so a missing field can be told apart from 0.
type VoteRequest struct {
	PollID    string `json:"pollId"`
	OptionIdx *int   `json:"optionIdx"`
	Proof     *Proof `json:"proof"`
}

type CreatePollRequest struct {
	Question string    `json:"question"`
	Options  []string  `json:"options"`
	StartTS  time.Time `json:"start_ts"`
	EndTS    time.Time `json:"end_ts"`
}

type ResetVoteRequest struct {
	PollID        string `json:"pollId"`
	NullifierHash string `json:"nullifierHash"`
	All           bool   `json:"all"`
}

// Response types

// VoteResponse is shared by the accepted (200) and duplicate (409) paths.
type VoteResponse struct {
	OptionTotals []int `json:"optionTotals"`
	TotalVotes   int   `json:"totalVotes"`
}

type LivePollsResponse struct {
	Polls           []Poll   `json:"polls"`
	StartsInSeconds *float64 `json:"startsInSeconds,omitempty"`
	StartsIn        string   `json:"startsIn,omitempty"`
}

type PollResult struct {
	Poll
	OptionTotals []int `json:"optionTotals"`
	TotalVotes   int   `json:"totalVotes"`
}

type CreatePollResponse struct {
	PollID string `json:"poll_id"`
	Status string `json:"status"`
}

type AdvanceResponse struct {
	Closed    int64          `json:"closed"`
	Activated int64          `json:"activated"`
	Counts    map[string]int `json:"counts"`
}

type ResetVoteResponse struct {
	Deleted int64 `json:"deleted"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	StartTS   time.Time `json:"start_ts"`
	EndTS     time.Time `json:"end_ts"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Vote struct {
	PollID        string
	NullifierHash string
	OptionIdx     int
	CreatedAt     time.Time
}

// Aggregate is derived from the vote table on every read; it is never stored.
type Aggregate struct {
	OptionTotals []int
	TotalVotes   int
}

// Verification is the verifier's answer for one proof.
type Verification struct {
	Success       bool
	NullifierHash string
	Code          string
}

// VoteResult is what the admission engine hands back for every submission.
// OptionTotals and TotalVotes are only meaningful for the accepted and
// duplicate outcomes.
type VoteResult struct {
	Outcome      string
	OptionTotals []int
	TotalVotes   int
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ZeroAggregate returns an all-zero aggregate for n options.
func ZeroAggregate(n int) Aggregate {
	return Aggregate{OptionTotals: make([]int, n)}
}
