// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the poll and vote data access layer, built on goqu so the
same queries run on Postgres and SQLite.

	s := store.New(conn, cfg.DatabaseType)
	poll, err := s.GetPoll(ctx, id)

# Polls

Reads: GetPoll, LivePolls, NextScheduled, PollsSince, StatusCounts.
Conditional updates used by the lifecycle advancer: CloseEnded and
ActivateStarted. Each is one UPDATE guarded by the current status, so
running them again changes nothing.

# Votes

InsertVote is a plain INSERT. A primary key violation is returned as
ErrDuplicateVote; there is no read-before-write.

Aggregate reads the poll_vote_counts view, falling back to a GROUP BY over
vote. Totals are zero-filled to the option count.

DeleteVote and DeleteVotes exist for moderation only.
*/
package store
