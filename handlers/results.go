// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/humanpoll/middleware"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/voting"
)

type ResultsHandler struct {
	catalog *voting.Catalog
}

func NewResultsHandler(catalog *voting.Catalog) *ResultsHandler {
	return &ResultsHandler{catalog: catalog}
}

// List handles GET /api/results?days=N
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	days := voting.DefaultResultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest, "days must be an integer")
			return
		}
		days = n
	}

	results, err := h.catalog.Results(r.Context(), days)
	if errors.Is(err, voting.ErrInvalidDays) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.OutcomeInvalidRequest,
			fmt.Sprintf("days must be between 1 and %d", voting.MaxResultDays))
		return
	}
	if err != nil {
		slog.Error("failed to list results", "days", days, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, errInternal, "Failed to load results.")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
