// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin authentication and log-safe fingerprints.

# Admin Token

Admin routes compare the X-Admin-Token header against the configured token:

	err := auth.ValidateAdminToken(r.Header.Get("X-Admin-Token"), cfg.AdminToken)

The comparison is constant time. When no token is configured every call
returns ErrAdminDisabled, which the handlers report as admin_disabled.

# Fingerprints

Nullifiers identify a human on a poll and are never logged. Log lines carry
a salted fingerprint instead:

	slog.Info("vote accepted", "voter", auth.Fingerprint(nullifier, cfg.LogSalt))

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
