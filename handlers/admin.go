// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/humanpoll/auth"
	"github.com/danielhkuo/humanpoll/cliparse"
	"github.com/danielhkuo/humanpoll/middleware"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
	"github.com/danielhkuo/humanpoll/voting"
)

// Error codes for failures outside the vote outcome taxonomy
const (
	errInternal      = "internal_error"
	errAdminDisabled = "admin_disabled"
	errUnauthorized  = "unauthorized"
)

// AdminStore is what the admin routes need from the store.
type AdminStore interface {
	CreatePoll(ctx context.Context, p models.Poll) error
	StatusCounts(ctx context.Context) (map[string]int, error)
	DeleteVote(ctx context.Context, pollID, nullifierHash string) (int64, error)
	DeleteVotes(ctx context.Context, pollID string) (int64, error)
}

type AdminHandler struct {
	store    AdminStore
	advancer voting.Advancer
	cfg      cliparse.Config
	now      func() time.Time
}

func NewAdminHandler(s AdminStore, advancer voting.Advancer, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: s, advancer: advancer, cfg: cfg, now: time.Now}
}

// authorize checks X-Admin-Token and writes the error response if it fails.
func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), h.cfg.AdminToken)
	switch {
	case errors.Is(err, auth.ErrAdminDisabled):
		middleware.ErrorResponse(w, http.StatusInternalServerError, errAdminDisabled, "Admin token is not configured.")
		return false
	case err != nil:
		middleware.ErrorResponse(w, http.StatusUnauthorized, errUnauthorized, "Invalid admin token.")
		return false
	}
	return true
}

// Advance handles POST /api/admin/advance
func (h *AdminHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	report, err := h.advancer.Advance(r.Context())
	if err != nil {
		slog.Error("admin advance failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, errInternal, "Failed to advance polls.")
		return
	}

	counts, err := h.store.StatusCounts(r.Context())
	if err != nil {
		slog.Error("failed to count polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, errInternal, "Failed to count polls.")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdvanceResponse{
		Closed:    report.Closed,
		Activated: report.Activated,
		Counts:    counts,
	})
}

// ResetVote handles POST /api/admin/reset-vote
func (h *AdminHandler) ResetVote(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.ResetVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "Invalid JSON")
		return
	}

	if req.PollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "pollId is required")
		return
	}
	if !req.All && req.NullifierHash == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "nullifierHash or all is required")
		return
	}

	var deleted int64
	var err error
	if req.All {
		deleted, err = h.store.DeleteVotes(r.Context(), req.PollID)
	} else {
		deleted, err = h.store.DeleteVote(r.Context(), req.PollID, req.NullifierHash)
	}
	if err != nil {
		slog.Error("failed to reset votes", "poll_id", req.PollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, errInternal, "Failed to reset votes.")
		return
	}

	if req.All {
		slog.Warn("votes reset", "poll_id", req.PollID, "deleted", deleted)
	} else {
		slog.Warn("vote reset", "poll_id", req.PollID,
			"voter", auth.Fingerprint(req.NullifierHash, h.cfg.LogSalt), "deleted", deleted)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResetVoteResponse{Deleted: deleted})
}

// CreatePoll handles POST /api/admin/polls
func (h *AdminHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "Invalid JSON")
		return
	}

	// Validate input
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "question is required")
		return
	}
	if len(req.Options) < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "at least 2 options are required")
		return
	}
	for _, opt := range req.Options {
		if strings.TrimSpace(opt) == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "options must not be empty")
			return
		}
	}
	if req.StartTS.IsZero() || req.EndTS.IsZero() || !req.StartTS.Before(req.EndTS) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "start_ts must be before end_ts")
		return
	}

	now := h.now()
	if !req.EndTS.After(now) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "end_ts is in the past")
		return
	}

	// Initial status follows the window; the advancer takes it from there
	status := models.StatusScheduled
	if !req.StartTS.After(now) {
		status = models.StatusLive
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Question:  req.Question,
		Options:   req.Options,
		StartTS:   req.StartTS,
		EndTS:     req.EndTS,
		Status:    status,
		CreatedAt: now,
	}

	err := h.store.CreatePoll(r.Context(), poll)
	if errors.Is(err, store.ErrInvalidPoll) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "Invalid poll")
		return
	}
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, errInternal, "Failed to create poll.")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "status", status, "start_ts", poll.StartTS)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID: poll.ID,
		Status: status,
	})
}
