// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/humanpoll/metrics"
	"github.com/danielhkuo/humanpoll/models"
)

// Store is the subset of the poll store the advancer needs.
type Store interface {
	CloseEnded(ctx context.Context, now time.Time) (int64, error)
	ActivateStarted(ctx context.Context, now time.Time) (int64, error)
}

// Report is what one Advance call changed.
type Report struct {
	Closed    int64
	Activated int64
}

// Advancer moves polls through scheduled -> live -> closed.
type Advancer struct {
	store   Store
	now     func() time.Time
	metrics *metrics.Collectors
}

// New returns an advancer. now defaults to time.Now and m may be nil.
func New(store Store, now func() time.Time, m *metrics.Collectors) *Advancer {
	if now == nil {
		now = time.Now
	}
	return &Advancer{store: store, now: now, metrics: m}
}

// Advance closes live polls whose window ended and then activates scheduled
// polls whose window contains now. Both steps always run; a failed step is
// logged and its error joined into the result while the other still
// applies.
func (a *Advancer) Advance(ctx context.Context) (Report, error) {
	now := a.now()

	var report Report
	var errs []error

	closed, err := a.store.CloseEnded(ctx, now)
	if err != nil {
		slog.Error("failed to close ended polls", "error", err)
		errs = append(errs, err)
	} else {
		report.Closed = closed
		a.metrics.Advanced(models.StatusClosed, closed)
	}

	activated, err := a.store.ActivateStarted(ctx, now)
	if err != nil {
		slog.Error("failed to activate started polls", "error", err)
		errs = append(errs, err)
	} else {
		report.Activated = activated
		a.metrics.Advanced(models.StatusLive, activated)
	}

	if report.Closed > 0 || report.Activated > 0 {
		slog.Info("polls advanced", "closed", report.Closed, "activated", report.Activated)
	}

	return report, errors.Join(errs...)
}

// Run calls Advance every interval until ctx is cancelled. A non-positive
// interval returns immediately.
func (a *Advancer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are logged inside Advance; the next tick retries.
			_, _ = a.Advance(ctx)
		}
	}
}
