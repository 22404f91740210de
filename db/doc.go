// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema migrations and driver error
classification.

# Connections

Open picks the driver from the configured database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:/tmp/poll.db?_pragma=busy_timeout(5000)")

# Migrations

Migrate applies the embedded SQL files under migrations/ with
golang-migrate:

	if err := db.Migrate(cfg.DatabaseType, cfg.DatabaseURL); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - already-applied versions are skipped.

# Tables

  - poll: question, options (JSON array text), start_ts, end_ts, status
  - vote: one row per (poll_id, nullifier_hash)
  - poll_vote_counts (view): per-option vote counts

Instants are BIGINT unix milliseconds in both dialects so window
comparisons behave the same on Postgres and SQLite.

# Relationships

	poll 1──* vote

vote.poll_id uses ON DELETE CASCADE.

# Uniqueness

The vote primary key (poll_id, nullifier_hash) is what enforces one vote
per human per poll. IsUniqueViolation recognises its violation for both
drivers:

	if db.IsUniqueViolation(err) {
		// same human already voted
	}
*/
package db
