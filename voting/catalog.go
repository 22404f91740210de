// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/humanpoll/civilday"
	"github.com/danielhkuo/humanpoll/lifecycle"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
)

const (
	DefaultResultDays = 7
	MaxResultDays     = 90
)

// ErrInvalidDays is returned for a results window outside 1..MaxResultDays.
var ErrInvalidDays = errors.New("days out of range")

// CatalogStore is the poll store as seen by the read paths.
type CatalogStore interface {
	LivePolls(ctx context.Context, now time.Time, limit int) ([]models.Poll, error)
	NextScheduled(ctx context.Context, now time.Time) (models.Poll, error)
	PollsSince(ctx context.Context, cutoff, now time.Time) ([]models.Poll, error)
	Aggregate(ctx context.Context, pollID string, optionCount int) (models.Aggregate, error)
}

// Advancer refreshes cached poll status.
type Advancer interface {
	Advance(ctx context.Context) (lifecycle.Report, error)
}

// Catalog serves poll lookup and the results listing. Both advance the
// lifecycle before reading so status is fresh without a scheduler.
type Catalog struct {
	store    CatalogStore
	advancer Advancer
	cfg      Config
}

func NewCatalog(s CatalogStore, a Advancer, cfg Config) *Catalog {
	return &Catalog{store: s, advancer: a, cfg: cfg}
}

func (c *Catalog) advance(ctx context.Context) {
	// Partial progress is fine; the next read retries.
	if _, err := c.advancer.Advance(ctx); err != nil {
		slog.Warn("advance before read failed", "error", err)
	}
}

// LiveOrNext returns up to DailyPollCount live polls. With none live it
// returns an empty list and a countdown to the next scheduled poll, if any.
func (c *Catalog) LiveOrNext(ctx context.Context) (models.LivePollsResponse, error) {
	c.advance(ctx)

	now := c.cfg.now()
	limit := c.cfg.DailyPollCount
	if limit < 1 {
		limit = 1
	}

	live, err := c.store.LivePolls(ctx, now, limit)
	if err != nil {
		return models.LivePollsResponse{}, err
	}
	if len(live) > 0 {
		return models.LivePollsResponse{Polls: live}, nil
	}

	resp := models.LivePollsResponse{Polls: []models.Poll{}}

	next, err := c.store.NextScheduled(ctx, now)
	if errors.Is(err, store.ErrPollNotFound) {
		return resp, nil
	}
	if err != nil {
		return models.LivePollsResponse{}, err
	}

	secs := next.StartTS.Sub(now).Seconds()
	resp.StartsInSeconds = &secs
	resp.StartsIn = humanize.RelTime(next.StartTS, now, "ago", "from now")
	return resp, nil
}

// Results lists live and closed polls from the last days civil days, plus
// any poll live now, newest first. Polls without votes are left out.
func (c *Catalog) Results(ctx context.Context, days int) ([]models.PollResult, error) {
	if days < 1 || days > MaxResultDays {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}

	c.advance(ctx)

	now := c.cfg.now()
	cutoff := civilday.For(now, c.cfg.location()).DaysBack(days)

	polls, err := c.store.PollsSince(ctx, cutoff, now)
	if err != nil {
		return nil, err
	}

	results := make([]models.PollResult, 0, len(polls))
	for _, p := range polls {
		agg, err := c.store.Aggregate(ctx, p.ID, len(p.Options))
		if err != nil {
			return nil, err
		}
		if agg.TotalVotes == 0 {
			continue
		}

		results = append(results, models.PollResult{
			Poll:         p,
			OptionTotals: agg.OptionTotals,
			TotalVotes:   agg.TotalVotes,
		})
	}

	return results, nil
}
