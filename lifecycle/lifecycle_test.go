// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/humanpoll/lifecycle"
	"github.com/danielhkuo/humanpoll/metrics"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/testutil"
)

var yesNo = []string{"Yes", "No"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAdvance(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)
	now := time.Now()

	ended := testutil.CreateTestPoll(t, s, yesNo, now.Add(-26*time.Hour), now.Add(-2*time.Hour), models.StatusLive)
	starting := testutil.CreateTestPoll(t, s, yesNo, now.Add(-time.Minute), now.Add(time.Hour), models.StatusScheduled)
	future := testutil.CreateTestPoll(t, s, yesNo, now.Add(time.Hour), now.Add(25*time.Hour), models.StatusScheduled)
	archived := testutil.CreateTestPoll(t, s, yesNo, now.Add(-time.Hour), now.Add(time.Hour), models.StatusClosed)

	adv := lifecycle.New(s, fixedClock(now), nil)

	report, err := adv.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Report{Closed: 1, Activated: 1}, report)

	assert.Equal(t, models.StatusClosed, testutil.PollStatus(t, conn, ended))
	assert.Equal(t, models.StatusLive, testutil.PollStatus(t, conn, starting))
	assert.Equal(t, models.StatusScheduled, testutil.PollStatus(t, conn, future))
	// Closed polls are never reopened, even inside their window.
	assert.Equal(t, models.StatusClosed, testutil.PollStatus(t, conn, archived))
}

func TestAdvanceIdempotent(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	now := time.Now()

	testutil.CreateTestPoll(t, s, yesNo, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusLive)
	testutil.CreateTestPoll(t, s, yesNo, now.Add(-time.Hour), now.Add(time.Hour), models.StatusScheduled)

	adv := lifecycle.New(s, fixedClock(now), nil)

	first, err := adv.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Report{Closed: 1, Activated: 1}, first)

	before, err := s.StatusCounts(context.Background())
	require.NoError(t, err)

	second, err := adv.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lifecycle.Report{}, second)

	after, err := s.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAdvanceConcurrent(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	now := time.Now()

	for i := 0; i < 5; i++ {
		testutil.CreateTestPoll(t, s, yesNo, now.Add(-time.Hour), now.Add(time.Hour), models.StatusScheduled)
	}

	adv := lifecycle.New(s, fixedClock(now), nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var activated int64

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := adv.Advance(context.Background())
			assert.NoError(t, err)
			mu.Lock()
			activated += report.Activated
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every poll is activated exactly once across all callers.
	assert.EqualValues(t, 5, activated)

	counts, err := s.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, counts[models.StatusLive])
}

type failingStore struct {
	closeErr    error
	activateErr error
	activated   int64
	calls       []string
}

func (f *failingStore) CloseEnded(ctx context.Context, now time.Time) (int64, error) {
	f.calls = append(f.calls, "close")
	return 0, f.closeErr
}

func (f *failingStore) ActivateStarted(ctx context.Context, now time.Time) (int64, error) {
	f.calls = append(f.calls, "activate")
	return f.activated, f.activateErr
}

func TestAdvanceStepFailure(t *testing.T) {
	closeErr := errors.New("close failed")
	activateErr := errors.New("activate failed")

	tests := []struct {
		name      string
		store     *failingStore
		wantErrs  []error
		wantCount int64
	}{
		{"close fails, activate still runs", &failingStore{closeErr: closeErr, activated: 2}, []error{closeErr}, 2},
		{"activate fails", &failingStore{activateErr: activateErr}, []error{activateErr}, 0},
		{"both fail", &failingStore{closeErr: closeErr, activateErr: activateErr}, []error{closeErr, activateErr}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv := lifecycle.New(tt.store, nil, nil)

			report, err := adv.Advance(context.Background())
			require.Error(t, err)
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}
			assert.Equal(t, tt.wantCount, report.Activated)
			assert.Equal(t, []string{"close", "activate"}, tt.store.calls)
		})
	}
}

func TestAdvanceMetrics(t *testing.T) {
	s, _ := testutil.SetupTestStore(t)
	now := time.Now()

	testutil.CreateTestPoll(t, s, yesNo, now.Add(-time.Hour), now.Add(time.Hour), models.StatusScheduled)

	reg := prometheus.NewRegistry()
	adv := lifecycle.New(s, fixedClock(now), metrics.New(reg))

	_, err := adv.Advance(context.Background())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "humanpoll_polls_advanced_total" {
			found = true
			require.Len(t, mf.GetMetric(), 1)
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}

func TestRunStopsOnCancel(t *testing.T) {
	s, conn := testutil.SetupTestStore(t)
	now := time.Now()

	id := testutil.CreateTestPoll(t, s, yesNo, now.Add(-time.Hour), now.Add(time.Hour), models.StatusScheduled)

	adv := lifecycle.New(s, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		adv.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return testutil.PollStatus(t, conn, id) == models.StatusLive
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// Zero interval disables the loop.
	adv.Run(context.Background(), 0)
}
