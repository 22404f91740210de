// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/testutil"
)

func TestGetLive(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	options := []string{"Cats", "Dogs", "Neither"}
	pollID := testutil.CreateTestPoll(t, env.store, options, now.Add(-time.Minute), now.Add(time.Hour), models.StatusScheduled)

	req := httptest.NewRequest("GET", "/api/polls/live", nil)
	w := httptest.NewRecorder()
	env.polls.GetLive(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LivePollsResponse
	testutil.AssertJSON(t, w, &resp)

	require.Len(t, resp.Polls, 1)
	assert.Equal(t, pollID, resp.Polls[0].ID)
	assert.Equal(t, options, resp.Polls[0].Options)
	assert.Equal(t, models.StatusLive, resp.Polls[0].Status)
	assert.Nil(t, resp.StartsInSeconds)
}

func TestGetLive_Countdown(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	testutil.CreateTestPoll(t, env.store, []string{"Yes", "No"}, now.Add(2*time.Hour), now.Add(26*time.Hour), models.StatusScheduled)

	req := httptest.NewRequest("GET", "/api/polls/live", nil)
	w := httptest.NewRecorder()
	env.polls.GetLive(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"polls":[]`)

	var resp models.LivePollsResponse
	testutil.AssertJSON(t, w, &resp)

	require.NotNil(t, resp.StartsInSeconds)
	assert.InDelta(t, 2*time.Hour.Seconds(), *resp.StartsInSeconds, 5)
	assert.Contains(t, resp.StartsIn, "from now")
}

func TestGetLive_Empty(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/api/polls/live", nil)
	w := httptest.NewRecorder()
	env.polls.GetLive(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"polls":[]}`, w.Body.String())
}

func TestResultsList(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	ctx := context.Background()

	yesterday := testutil.CreateTestPoll(t, env.store, []string{"Yes", "No"}, now.Add(-25*time.Hour), now.Add(-time.Hour), models.StatusLive)
	for i, opt := range []int{1, 1, 0} {
		require.NoError(t, env.store.InsertVote(ctx, models.Vote{
			PollID: yesterday, NullifierHash: testutil.Nullifier(string(rune('a'+i)), yesterday), OptionIdx: opt, CreatedAt: now,
		}))
	}
	testutil.CreateTestPoll(t, env.store, []string{"Yes", "No"}, now.Add(-49*time.Hour), now.Add(-25*time.Hour), models.StatusClosed)

	req := httptest.NewRequest("GET", "/api/results", nil)
	w := httptest.NewRecorder()
	env.results.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var results []models.PollResult
	testutil.AssertJSON(t, w, &results)

	require.Len(t, results, 1)
	assert.Equal(t, yesterday, results[0].ID)
	// The advance before reading closed it.
	assert.Equal(t, models.StatusClosed, results[0].Status)
	assert.Equal(t, []int{1, 2}, results[0].OptionTotals)
	assert.Equal(t, 3, results[0].TotalVotes)
}

func TestResultsList_Days(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query      string
		wantStatus int
	}{
		{"?days=1", http.StatusOK},
		{"?days=90", http.StatusOK},
		{"?days=0", http.StatusBadRequest},
		{"?days=91", http.StatusBadRequest},
		{"?days=week", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/results"+tt.query, nil)
			w := httptest.NewRecorder()
			env.results.List(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `[]`, w.Body.String())
			}
		})
	}
}
