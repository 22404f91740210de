// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command seed fills a database with a week of closed polls, one live poll
// and six scheduled ones, one per civil day.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/danielhkuo/humanpoll/civilday"
	"github.com/danielhkuo/humanpoll/db"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
)

const (
	pastDays   = 7
	futureDays = 6
	pollLength = 20 * time.Hour
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	envFile := flags.String("env-file", ".env", "Optional .env file")
	dbURL := flags.StringP("database-url", "d", "", "Database URL (DATABASE_URL)")
	dbType := flags.StringP("database-type", "t", "", "postgres or sqlite (DATABASE_TYPE)")
	tz := flags.String("timezone", "", "IANA timezone of the daily cycle (POLL_TIMEZONE)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	url := firstNonEmpty(*dbURL, os.Getenv("DATABASE_URL"))
	if url == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	typ := firstNonEmpty(*dbType, os.Getenv("DATABASE_TYPE"), db.TypePostgres)

	loc, err := time.LoadLocation(firstNonEmpty(*tz, os.Getenv("POLL_TIMEZONE"), "America/Toronto"))
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	if err := db.Migrate(typ, url); err != nil {
		return err
	}

	conn, err := db.Open(typ, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	now := time.Now()
	s := store.New(conn, typ)

	for _, p := range Plan(now, loc) {
		if err := s.CreatePoll(context.Background(), p); err != nil {
			return fmt.Errorf("failed to create poll %q: %w", p.Question, err)
		}

		slog.Info("poll created",
			"status", p.Status,
			"question", p.Question,
			"starts", humanize.RelTime(p.StartTS, now, "ago", "from now"),
		)
	}

	return nil
}

// Plan lays out pastDays closed polls, one live poll for today and
// futureDays scheduled polls. Every poll starts at local midnight except
// the live one, which started two hours ago and runs to the end of today.
func Plan(now time.Time, loc *time.Location) []models.Poll {
	today := civilday.For(now, loc)
	polls := make([]models.Poll, 0, pastDays+1+futureDays)

	for i := pastDays; i >= 1; i-- {
		start := today.DaysBack(i)
		polls = append(polls, newPoll(
			fmt.Sprintf("Sample poll from %d days ago: %s", i, gofakeit.Question()),
			[]string{"Yes", "No", "Maybe"},
			start, start.Add(pollLength), models.StatusClosed, now,
		))
	}

	polls = append(polls, newPoll(
		"Do you think AI will transform society in the next 5 years?",
		[]string{"Definitely", "Probably", "Maybe", "Unlikely", "No"},
		now.Add(-2*time.Hour), today.End.Add(civilday.Resolution), models.StatusLive, now,
	))

	for i := 1; i <= futureDays; i++ {
		start := today.DaysBack(-i)
		polls = append(polls, newPoll(
			fmt.Sprintf("Upcoming poll %d: %s", i, gofakeit.Question()),
			[]string{"Option A", "Option B", "Option C"},
			start, start.Add(pollLength), models.StatusScheduled, now,
		))
	}

	return polls
}

func newPoll(question string, options []string, start, end time.Time, status string, now time.Time) models.Poll {
	return models.Poll{
		ID:        uuid.NewString(),
		Question:  question,
		Options:   options,
		StartTS:   start,
		EndTS:     end,
		Status:    status,
		CreatedAt: now,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
