// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.VoteOutcome("accepted")
	m.VoteOutcome("accepted")
	m.VoteOutcome("duplicate")
	m.Advanced("live", 2)
	m.Advanced("closed", 0)
	m.Request("POST /api/vote", 200)
	m.ObserveVerify(120 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.votes.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.votes.WithLabelValues("duplicate")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.advanced.WithLabelValues("live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST /api/vote", "200")))

	// Zero increments do not create a series.
	assert.Equal(t, 1, testutil.CollectAndCount(m.advanced))
}

func TestNilCollectors(t *testing.T) {
	var m *Collectors

	assert.NotPanics(t, func() {
		m.VoteOutcome("accepted")
		m.ObserveVerify(time.Second)
		m.Advanced("live", 1)
		m.Request("GET /health", 200)
	})
}
