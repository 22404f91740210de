// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/danielhkuo/humanpoll/db"
	"github.com/danielhkuo/humanpoll/models"
)

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrDuplicateVote = errors.New("vote already recorded for this poll")
	ErrInvalidPoll   = errors.New("invalid poll")
)

const (
	pollTableName   = "poll"
	voteTableName   = "vote"
	countsViewName  = "poll_vote_counts"
	votesColName    = "votes"
	optionIdxColStr = "option_idx"
)

var (
	pollTable        = goqu.T(pollTableName)
	pollIDCol        = pollTable.Col("id")
	pollStatusCol    = pollTable.Col("status")
	pollStartCol     = pollTable.Col("start_ts")
	pollEndCol       = pollTable.Col("end_ts")
	voteTable        = goqu.T(voteTableName)
	votePollIDCol    = voteTable.Col("poll_id")
	voteNullifierCol = voteTable.Col("nullifier_hash")
	voteOptionCol    = voteTable.Col(optionIdxColStr)
	countsView       = goqu.T(countsViewName)
	countsPollIDCol  = countsView.Col("poll_id")
	countsOptionCol  = countsView.Col(optionIdxColStr)
	countsVotesCol   = countsView.Col(votesColName)
)

type pollRow struct {
	ID        string `db:"id"`
	Question  string `db:"question"`
	Options   string `db:"options"`
	StartTS   int64  `db:"start_ts"`
	EndTS     int64  `db:"end_ts"`
	Status    string `db:"status"`
	CreatedAt int64  `db:"created_at"`
}

type countRow struct {
	OptionIdx int   `db:"option_idx"`
	Votes     int64 `db:"votes"`
}

type statusRow struct {
	Status string `db:"status"`
	Polls  int    `db:"polls"`
}

// Store is the poll and vote data access layer.
type Store struct {
	db *goqu.Database
}

// New wraps conn with the goqu dialect for dbType.
func New(conn *sql.DB, dbType string) *Store {
	return &Store{db: goqu.New(db.Dialect(dbType), conn)}
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func (r pollRow) toPoll() (models.Poll, error) {
	var options []string
	if err := json.Unmarshal([]byte(r.Options), &options); err != nil {
		return models.Poll{}, fmt.Errorf("%w: poll %s options: %v", ErrInvalidPoll, r.ID, err)
	}

	return models.Poll{
		ID:        r.ID,
		Question:  r.Question,
		Options:   options,
		StartTS:   fromMillis(r.StartTS),
		EndTS:     fromMillis(r.EndTS),
		Status:    r.Status,
		CreatedAt: fromMillis(r.CreatedAt),
	}, nil
}

func toPolls(rows []pollRow) ([]models.Poll, error) {
	polls := make([]models.Poll, 0, len(rows))
	for _, row := range rows {
		p, err := row.toPoll()
		if err != nil {
			return nil, err
		}
		polls = append(polls, p)
	}
	return polls, nil
}

// GetPoll loads a poll by id.
func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	var row pollRow

	found, err := s.db.From(pollTable).
		Where(pollIDCol.Eq(id)).
		ScanStructContext(ctx, &row)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	if !found {
		return models.Poll{}, ErrPollNotFound
	}

	return row.toPoll()
}

// CreatePoll inserts a poll. The window and options are validated here so
// no caller can store a poll the rest of the system cannot vote on.
func (s *Store) CreatePoll(ctx context.Context, p models.Poll) error {
	if p.ID == "" || p.Question == "" {
		return fmt.Errorf("%w: id and question are required", ErrInvalidPoll)
	}
	if len(p.Options) < 2 {
		return fmt.Errorf("%w: at least 2 options required", ErrInvalidPoll)
	}
	// Compared at storage resolution; the schema's CHECK sees milliseconds.
	if toMillis(p.StartTS) >= toMillis(p.EndTS) {
		return fmt.Errorf("%w: start_ts must be before end_ts", ErrInvalidPoll)
	}

	options, err := json.Marshal(p.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	_, err = s.db.Insert(pollTable).Rows(goqu.Record{
		"id":         p.ID,
		"question":   p.Question,
		"options":    string(options),
		"start_ts":   toMillis(p.StartTS),
		"end_ts":     toMillis(p.EndTS),
		"status":     p.Status,
		"created_at": toMillis(p.CreatedAt),
	}).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	return nil
}

// CloseEnded moves live polls whose window has ended to closed.
func (s *Store) CloseEnded(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.Update(pollTable).
		Set(goqu.Record{"status": models.StatusClosed}).
		Where(
			pollStatusCol.Eq(models.StatusLive),
			pollEndCol.Lt(toMillis(now)),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to close ended polls: %w", err)
	}

	return res.RowsAffected()
}

// ActivateStarted moves scheduled polls whose window contains now to live.
func (s *Store) ActivateStarted(ctx context.Context, now time.Time) (int64, error) {
	ms := toMillis(now)

	res, err := s.db.Update(pollTable).
		Set(goqu.Record{"status": models.StatusLive}).
		Where(
			pollStatusCol.Eq(models.StatusScheduled),
			pollStartCol.Lte(ms),
			pollEndCol.Gt(ms),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to activate started polls: %w", err)
	}

	return res.RowsAffected()
}

// LivePolls returns up to limit live polls whose window contains now,
// earliest start first.
func (s *Store) LivePolls(ctx context.Context, now time.Time, limit int) ([]models.Poll, error) {
	ms := toMillis(now)

	var rows []pollRow
	err := s.db.From(pollTable).
		Where(
			pollStatusCol.Eq(models.StatusLive),
			pollStartCol.Lte(ms),
			pollEndCol.Gt(ms),
		).
		Order(pollStartCol.Asc(), pollIDCol.Asc()).
		Limit(uint(limit)).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query live polls: %w", err)
	}

	return toPolls(rows)
}

// NextScheduled returns the scheduled poll that starts soonest after now.
func (s *Store) NextScheduled(ctx context.Context, now time.Time) (models.Poll, error) {
	var row pollRow

	found, err := s.db.From(pollTable).
		Where(
			pollStatusCol.Eq(models.StatusScheduled),
			pollStartCol.Gt(toMillis(now)),
		).
		Order(pollStartCol.Asc(), pollIDCol.Asc()).
		ScanStructContext(ctx, &row)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query scheduled poll: %w", err)
	}

	if !found {
		return models.Poll{}, ErrPollNotFound
	}

	return row.toPoll()
}

// PollsSince returns live and closed polls that started at or after cutoff,
// plus any poll live at now regardless of its start, newest first.
func (s *Store) PollsSince(ctx context.Context, cutoff, now time.Time) ([]models.Poll, error) {
	ms := toMillis(now)

	var rows []pollRow
	err := s.db.From(pollTable).
		Where(
			pollStatusCol.In(models.StatusLive, models.StatusClosed),
			goqu.Or(
				pollStartCol.Gte(toMillis(cutoff)),
				goqu.And(
					pollStatusCol.Eq(models.StatusLive),
					pollStartCol.Lte(ms),
					pollEndCol.Gt(ms),
				),
			),
		).
		Order(pollStartCol.Desc(), pollIDCol.Asc()).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}

	return toPolls(rows)
}

// StatusCounts returns the number of polls in each status.
func (s *Store) StatusCounts(ctx context.Context) (map[string]int, error) {
	var rows []statusRow
	err := s.db.From(pollTable).
		Select(pollStatusCol.As("status"), goqu.COUNT(goqu.Star()).As("polls")).
		GroupBy(pollStatusCol).
		ScanStructsContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count polls: %w", err)
	}

	counts := map[string]int{
		models.StatusScheduled: 0,
		models.StatusLive:      0,
		models.StatusClosed:    0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Polls
	}

	return counts, nil
}
