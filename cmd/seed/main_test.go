// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/humanpoll/db"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
)

func TestPlan(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)

	polls := Plan(now, loc)
	require.Len(t, polls, pastDays+1+futureDays)

	counts := map[string]int{}
	for i, p := range polls {
		counts[p.Status]++
		assert.True(t, p.StartTS.Before(p.EndTS), "poll %d window", i)
		assert.GreaterOrEqual(t, len(p.Options), 2)

		switch p.Status {
		case models.StatusClosed:
			assert.True(t, p.EndTS.Before(now))
		case models.StatusLive:
			assert.False(t, now.Before(p.StartTS))
			assert.True(t, now.Before(p.EndTS))
			assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, loc), p.EndTS)
		case models.StatusScheduled:
			assert.True(t, p.StartTS.After(now))
			assert.Zero(t, p.StartTS.In(loc).Hour(), "scheduled polls start at local midnight")
		}
	}

	assert.Equal(t, map[string]int{models.StatusClosed: 7, models.StatusLive: 1, models.StatusScheduled: 6}, counts)

	// The first closed poll spans the DST change on 2026-03-08 and still
	// starts at local midnight.
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), polls[0].StartTS)
}

func TestRun(t *testing.T) {
	url := "file:" + filepath.Join(t.TempDir(), "seed.db")

	err := run([]string{"-d", url, "-t", db.TypeSQLite, "--env-file", filepath.Join(t.TempDir(), "none.env")})
	require.NoError(t, err)

	conn, err := db.Open(db.TypeSQLite, url)
	require.NoError(t, err)
	defer conn.Close()

	counts, err := store.New(conn, db.TypeSQLite).StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{models.StatusScheduled: 6, models.StatusLive: 1, models.StatusClosed: 7}, counts)
}
