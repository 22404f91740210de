// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle advances poll status from the clock.

	adv := lifecycle.New(store, time.Now, m)
	report, err := adv.Advance(ctx)

Advance runs two conditional updates:

 1. live polls with end_ts < now become closed
 2. scheduled polls with start_ts <= now < end_ts become live

Each update only matches rows still in the source status, so calling
Advance again with the same clock changes nothing, and concurrent callers
converge. Closed polls are never touched.

Status is a cache of the window. Vote admission checks timestamps itself
and does not rely on Advance having run.

Run drives Advance from a ticker for the server process; read paths also
call Advance before they query.
*/
package lifecycle
