// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "humanpoll"

// Collectors holds the service's Prometheus collectors. A nil *Collectors
// is valid and records nothing.
type Collectors struct {
	votes          *prometheus.CounterVec
	verifyDuration prometheus.Histogram
	advanced       *prometheus.CounterVec
	requests       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)

	return &Collectors{
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Vote submissions by outcome.",
		}, []string{"outcome"}),
		verifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "verify_duration_seconds",
			Help:      "Latency of proof verification calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 9),
		}),
		advanced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_advanced_total",
			Help:      "Poll status transitions made by the lifecycle advancer.",
		}, []string{"to"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// VoteOutcome counts one vote submission.
func (c *Collectors) VoteOutcome(outcome string) {
	if c == nil {
		return
	}
	c.votes.WithLabelValues(outcome).Inc()
}

// ObserveVerify records how long a verification call took.
func (c *Collectors) ObserveVerify(d time.Duration) {
	if c == nil {
		return
	}
	c.verifyDuration.Observe(d.Seconds())
}

// Advanced counts n polls moved to status to.
func (c *Collectors) Advanced(to string, n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.advanced.WithLabelValues(to).Add(float64(n))
}

// Request counts one HTTP response.
func (c *Collectors) Request(route string, code int) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
