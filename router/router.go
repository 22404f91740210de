// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/humanpoll/cliparse"
	"github.com/danielhkuo/humanpoll/handlers"
	"github.com/danielhkuo/humanpoll/lifecycle"
	"github.com/danielhkuo/humanpoll/metrics"
	"github.com/danielhkuo/humanpoll/middleware"
	"github.com/danielhkuo/humanpoll/store"
	"github.com/danielhkuo/humanpoll/voting"
)

// VotingConfig is the engine configuration derived from the process config.
func VotingConfig(cfg cliparse.Config) voting.Config {
	return voting.Config{
		Location:       cfg.Location,
		ActionID:       cfg.WorldIDActionID,
		DailyPollCount: cfg.DailyPollCount,
		RequireOrb:     cfg.RequireOrb,
		VerifyTimeout:  cfg.VerifyTimeout,
		LogSalt:        cfg.LogSalt,
	}
}

func NewRouter(db *sql.DB, cfg cliparse.Config, verifier voting.Verifier, m *metrics.Collectors, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	// Services
	s := store.New(db, cfg.DatabaseType)
	advancer := lifecycle.New(s, nil, m)
	vcfg := VotingConfig(cfg)
	engine := voting.NewEngine(s, verifier, vcfg, m)
	catalog := voting.NewCatalog(s, advancer, vcfg)

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(engine)
	pollHandler := handlers.NewPollHandler(catalog)
	resultsHandler := handlers.NewResultsHandler(catalog)
	adminHandler := handlers.NewAdminHandler(s, advancer, cfg)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(m, pattern, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus exposition
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Voting (public)
	handle("POST /api/vote", votingHandler.SubmitVote)

	// Reads (public, advance the lifecycle first)
	handle("GET /api/polls/live", pollHandler.GetLive)
	handle("GET /api/results", resultsHandler.List)

	// Admin operations (X-Admin-Token)
	handle("POST /api/admin/advance", adminHandler.Advance)
	handle("POST /api/admin/reset-vote", adminHandler.ResetVote)
	handle("POST /api/admin/polls", adminHandler.CreatePoll)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("humanpoll API v1"))
	})

	return mux
}
