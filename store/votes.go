// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"

	"github.com/danielhkuo/humanpoll/db"
	"github.com/danielhkuo/humanpoll/models"
)

// InsertVote records a vote with a single INSERT. The (poll_id,
// nullifier_hash) primary key decides races between identical
// submissions; the loser gets ErrDuplicateVote.
func (s *Store) InsertVote(ctx context.Context, v models.Vote) error {
	_, err := s.db.Insert(voteTable).Rows(goqu.Record{
		"poll_id":        v.PollID,
		"nullifier_hash": v.NullifierHash,
		optionIdxColStr:  v.OptionIdx,
		"created_at":     toMillis(v.CreatedAt),
	}).Executor().ExecContext(ctx)

	if db.IsUniqueViolation(err) {
		return ErrDuplicateVote
	}
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	return nil
}

// Aggregate counts the votes of a poll per option. It reads the
// poll_vote_counts view and falls back to counting the vote table directly
// if the view cannot be read. The result always has optionCount entries
// and TotalVotes is their sum.
func (s *Store) Aggregate(ctx context.Context, pollID string, optionCount int) (models.Aggregate, error) {
	var rows []countRow

	err := s.db.From(countsView).
		Select(countsOptionCol.As(optionIdxColStr), countsVotesCol.As(votesColName)).
		Where(countsPollIDCol.Eq(pollID)).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		slog.Warn("vote summary unavailable, counting directly", "poll_id", pollID, "error", err)

		rows, err = s.countVotes(ctx, pollID)
		if err != nil {
			return models.Aggregate{}, err
		}
	}

	return fold(rows, optionCount), nil
}

func (s *Store) countVotes(ctx context.Context, pollID string) ([]countRow, error) {
	var rows []countRow

	err := s.db.From(voteTable).
		Select(voteOptionCol.As(optionIdxColStr), goqu.COUNT(goqu.Star()).As(votesColName)).
		Where(votePollIDCol.Eq(pollID)).
		GroupBy(voteOptionCol).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	return rows, nil
}

// fold zero-fills totals to optionCount. Rows outside the option range
// cannot be attributed to an option and are left out of the total too.
func fold(rows []countRow, optionCount int) models.Aggregate {
	agg := models.ZeroAggregate(optionCount)

	for _, row := range rows {
		if row.OptionIdx < 0 || row.OptionIdx >= optionCount {
			continue
		}
		agg.OptionTotals[row.OptionIdx] += int(row.Votes)
	}

	for _, n := range agg.OptionTotals {
		agg.TotalVotes += n
	}

	return agg
}

// DeleteVote removes one human's vote on a poll (moderation).
func (s *Store) DeleteVote(ctx context.Context, pollID, nullifierHash string) (int64, error) {
	res, err := s.db.Delete(voteTable).
		Where(
			votePollIDCol.Eq(pollID),
			voteNullifierCol.Eq(nullifierHash),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete vote: %w", err)
	}

	return res.RowsAffected()
}

// DeleteVotes removes every vote on a poll (moderation).
func (s *Store) DeleteVotes(ctx context.Context, pollID string) (int64, error) {
	res, err := s.db.Delete(voteTable).
		Where(votePollIDCol.Eq(pollID)).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}

	return res.RowsAffected()
}
