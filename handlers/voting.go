// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/humanpoll/middleware"
	"github.com/danielhkuo/humanpoll/models"
)

// VoteSubmitter admits votes.
type VoteSubmitter interface {
	SubmitVote(ctx context.Context, req models.VoteRequest) models.VoteResult
}

type VotingHandler struct {
	engine VoteSubmitter
}

func NewVotingHandler(engine VoteSubmitter) *VotingHandler {
	return &VotingHandler{engine: engine}
}

// outcomeStatus maps every engine outcome to its HTTP status.
var outcomeStatus = map[string]int{
	models.OutcomeAccepted:           http.StatusOK,
	models.OutcomeDuplicate:          http.StatusConflict,
	models.OutcomeInvalidRequest:     http.StatusBadRequest,
	models.OutcomeInvalidOption:      http.StatusBadRequest,
	models.OutcomeNotFound:           http.StatusNotFound,
	models.OutcomeVerificationFailed: http.StatusUnauthorized,
	models.OutcomeClosed:             http.StatusForbidden,
	models.OutcomeInsertFailed:       http.StatusInternalServerError,
}

// outcomeMessage is the user-facing text for each error outcome. It never
// includes details from the store or the verifier.
var outcomeMessage = map[string]string{
	models.OutcomeInvalidRequest:     "Missing or malformed fields.",
	models.OutcomeInvalidOption:      "Invalid option index.",
	models.OutcomeNotFound:           "Poll not found.",
	models.OutcomeVerificationFailed: "Verification failed.",
	models.OutcomeClosed:             "This poll is not open for voting.",
	models.OutcomeInsertFailed:       "Vote could not be recorded.",
}

// SubmitVote handles POST /api/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		writeOutcome(w, models.VoteResult{Outcome: models.OutcomeInvalidRequest})
		return
	}

	writeOutcome(w, h.engine.SubmitVote(r.Context(), req))
}

func writeOutcome(w http.ResponseWriter, res models.VoteResult) {
	status, ok := outcomeStatus[res.Outcome]
	if !ok {
		status = http.StatusInternalServerError
	}

	switch res.Outcome {
	case models.OutcomeAccepted, models.OutcomeDuplicate:
		totals := res.OptionTotals
		if totals == nil {
			totals = []int{}
		}
		middleware.JSONResponse(w, status, models.VoteResponse{
			OptionTotals: totals,
			TotalVotes:   res.TotalVotes,
		})
	default:
		code := res.Outcome
		if !ok {
			code = models.OutcomeInsertFailed
		}
		middleware.ErrorResponse(w, status, code, outcomeMessage[code])
	}
}
