// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package worldid is the client for the World ID proof verification service.

	client := worldid.NewClient(worldid.Config{
		Endpoint: cfg.WorldIDEndpoint,
		AppID:    cfg.WorldIDAppID,
		APIKey:   cfg.WorldIDAPIKey,
		Timeout:  cfg.VerifyTimeout,
	})
	v, err := client.Verify(ctx, proof, cfg.WorldIDActionID, pollID)

The signal is hashed with HashToField before it is sent, so a proof
generated for one poll does not verify for another and its nullifier is
scoped to that poll.

Verify distinguishes three results:

  - 2xx: the service's verdict and the nullifier
  - 4xx: a negative verdict carrying the service's error code
  - 5xx or transport error: ErrUnavailable

Callers treat all but a positive verdict as a failed verification.
*/
package worldid
