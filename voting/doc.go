// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements vote admission and the public read paths.

# Engine

	engine := voting.NewEngine(store, verifier, cfg, m)
	result := engine.SubmitVote(ctx, req)

SubmitVote stops at the first failing step:

 1. pollId, optionIdx and a proof with root, nullifier and proof fields
    present, else invalid_request
 2. poll exists, else not_found
 3. 0 <= optionIdx < len(options), else invalid_option
 4. now is inside the civil day and start_ts <= now < end_ts, else closed
 5. the oracle accepts the proof for the poll id as signal, else
    verification_failed (errors and timeouts included)
 6. INSERT the vote; a key violation is duplicate, other errors insert_failed
 7. aggregate, zeroed if the read fails

Accepted and duplicate results carry the same totals shape.

# Catalog

	catalog := voting.NewCatalog(store, advancer, cfg)
	live, err := catalog.LiveOrNext(ctx)
	results, err := catalog.Results(ctx, 7)

Both run the lifecycle advancer first.
*/
package voting
