// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics defines the Prometheus collectors.

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.VoteOutcome(models.OutcomeAccepted)

Exported series:

	humanpoll_votes_total{outcome}
	humanpoll_verify_duration_seconds
	humanpoll_polls_advanced_total{to}
	humanpoll_http_requests_total{route,code}

Methods on a nil *Collectors are no-ops, so packages can take metrics as an
optional dependency.
*/
package metrics
