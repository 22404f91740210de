package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/danielhkuo/humanpoll/cliparse"
	"github.com/danielhkuo/humanpoll/db"
	"github.com/danielhkuo/humanpoll/lifecycle"
	"github.com/danielhkuo/humanpoll/metrics"
	"github.com/danielhkuo/humanpoll/middleware"
	"github.com/danielhkuo/humanpoll/router"
	"github.com/danielhkuo/humanpoll/store"
	"github.com/danielhkuo/humanpoll/worldid"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	// Apply migrations on a dedicated connection
	if err := db.Migrate(cfg.DatabaseType, cfg.DatabaseURL); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Connect
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	verifier := worldid.NewClient(worldid.Config{
		Endpoint: cfg.WorldIDEndpoint,
		AppID:    cfg.WorldIDAppID,
		APIKey:   cfg.WorldIDAPIKey,
		Timeout:  cfg.VerifyTimeout,
	})

	// Create router
	mux := router.NewRouter(dbConn, cfg, verifier, m, reg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.CORSOrigins, mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background lifecycle advance; read paths also advance on demand
	advancer := lifecycle.New(store.New(dbConn, cfg.DatabaseType), nil, m)
	if _, err := advancer.Advance(ctx); err != nil {
		slog.Warn("initial advance failed", "error", err)
	}
	go advancer.Run(ctx, cfg.AdvanceInterval)

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "timezone", cfg.Timezone, "daily_polls", cfg.DailyPollCount)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}

// setupLogging installs the default logger: text on a terminal, JSON
// otherwise.
func setupLogging(cfg cliparse.Config) {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
