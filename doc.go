// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the humanpoll API server.

humanpoll runs one poll per day that only verified humans can vote on.
Every vote carries a World ID zero-knowledge proof; the nullifier the
verifier returns is stable per human per poll, so a human gets exactly one
vote on each poll without the server learning who they are.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... WLD_APP_ID=app_... WLD_ACTION_ID_VOTE=vote LOG_SALT=... go run .

Or with flags:

	go run . -p 3318 -t sqlite -d "file:poll.db" --worldid-app-id app_... --worldid-action-id vote --log-salt ...

Seed a development database with a week of history and a live poll:

	go run ./cmd/seed -t sqlite -d "file:poll.db"

# Daily cycle

Polls move scheduled → live → closed. The lifecycle advancer runs at
startup, on every read of the live poll or results, and on a timer. A vote
is only accepted while the current instant is inside the poll's window
and inside the current civil day of the configured timezone.

# Architecture

  - cliparse: flags, environment and .env configuration
  - db: connections, embedded migrations, driver error classification
  - store: goqu queries over poll and vote
  - civilday: calendar-day boundaries in the poll timezone
  - lifecycle: the scheduled → live → closed advancer
  - worldid: World ID verify client
  - voting: vote admission engine and the live/results catalog
  - handlers, router, middleware: the HTTP API
  - metrics: Prometheus collectors
  - auth: admin token check and log-safe nullifier fingerprints

See package documentation for each component.
*/
package main
