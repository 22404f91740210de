// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/humanpoll/middleware"
	"github.com/danielhkuo/humanpoll/voting"
)

type PollHandler struct {
	catalog *voting.Catalog
}

func NewPollHandler(catalog *voting.Catalog) *PollHandler {
	return &PollHandler{catalog: catalog}
}

// GetLive handles GET /api/polls/live
func (h *PollHandler) GetLive(w http.ResponseWriter, r *http.Request) {
	resp, err := h.catalog.LiveOrNext(r.Context())
	if err != nil {
		slog.Error("failed to load live polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, errInternal, "Failed to load polls.")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
