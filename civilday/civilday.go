// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package civilday computes calendar-day boundaries in a fixed timezone.
package civilday

import (
	"time"
	_ "time/tzdata"
)

// Resolution is the granularity of stored instants.
const Resolution = time.Millisecond

// Window is one civil day: Start is local midnight, End is the last
// instant (at Resolution) before the following local midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// For returns the civil day containing t in loc.
// Boundaries come from the wall-clock date, so days that gain or lose an
// hour to a DST shift are 25 or 23 hours long.
func For(t time.Time, loc *time.Location) Window {
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	next := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	return Window{
		Start: start,
		End:   next.Add(-Resolution),
	}
}

// Contains reports whether t falls inside the day.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End.Add(Resolution))
}

// DaysBack returns local midnight n calendar days before the window's day.
func (w Window) DaysBack(n int) time.Time {
	y, m, d := w.Start.Date()
	return time.Date(y, m, d-n, 0, 0, 0, 0, w.Start.Location())
}

// Length is the wall duration of the day.
func (w Window) Length() time.Duration {
	return w.End.Sub(w.Start) + Resolution
}
