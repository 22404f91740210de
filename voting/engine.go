// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/humanpoll/auth"
	"github.com/danielhkuo/humanpoll/civilday"
	"github.com/danielhkuo/humanpoll/metrics"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
)

// Config is everything the engine and catalog read from configuration.
type Config struct {
	Location       *time.Location
	ActionID       string
	DailyPollCount int
	RequireOrb     bool
	VerifyTimeout  time.Duration
	LogSalt        string
	Now            func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Config) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.UTC
}

// Store is the poll store as seen by the engine.
type Store interface {
	GetPoll(ctx context.Context, id string) (models.Poll, error)
	InsertVote(ctx context.Context, v models.Vote) error
	Aggregate(ctx context.Context, pollID string, optionCount int) (models.Aggregate, error)
}

// Verifier is the proof-of-personhood oracle. The nullifier it returns is
// scoped to signal.
type Verifier interface {
	Verify(ctx context.Context, proof models.Proof, action, signal string) (models.Verification, error)
}

// Engine admits votes. It keeps no state between calls; the vote table's
// (poll_id, nullifier_hash) key is the only coordination between
// concurrent submissions.
type Engine struct {
	store    Store
	verifier Verifier
	cfg      Config
	metrics  *metrics.Collectors
}

func NewEngine(s Store, v Verifier, cfg Config, m *metrics.Collectors) *Engine {
	return &Engine{store: s, verifier: v, cfg: cfg, metrics: m}
}

// SubmitVote runs the admission steps in order, stopping at the first that
// fails. Every store and oracle error is mapped to an outcome; the caller
// never sees them.
func (e *Engine) SubmitVote(ctx context.Context, req models.VoteRequest) models.VoteResult {
	result := e.submit(ctx, req)
	e.metrics.VoteOutcome(result.Outcome)
	return result
}

func (e *Engine) submit(ctx context.Context, req models.VoteRequest) models.VoteResult {
	if !wellFormed(req) {
		return outcome(models.OutcomeInvalidRequest)
	}
	optionIdx := *req.OptionIdx

	poll, err := e.store.GetPoll(ctx, req.PollID)
	if errors.Is(err, store.ErrPollNotFound) {
		return outcome(models.OutcomeNotFound)
	}
	if err != nil {
		slog.Error("failed to load poll", "poll_id", req.PollID, "error", err)
		return outcome(models.OutcomeInsertFailed)
	}

	if optionIdx < 0 || optionIdx >= len(poll.Options) {
		return outcome(models.OutcomeInvalidOption)
	}

	now := e.cfg.now()
	if !e.open(poll, now) {
		slog.Info("vote rejected for closed poll", "poll_id", poll.ID)
		return outcome(models.OutcomeClosed)
	}

	nullifier, ok := e.verify(ctx, poll.ID, *req.Proof)
	if !ok {
		return outcome(models.OutcomeVerificationFailed)
	}

	voter := auth.Fingerprint(nullifier, e.cfg.LogSalt)

	res := models.VoteResult{Outcome: models.OutcomeAccepted}
	err = e.store.InsertVote(ctx, models.Vote{
		PollID:        poll.ID,
		NullifierHash: nullifier,
		OptionIdx:     optionIdx,
		CreatedAt:     now,
	})
	switch {
	case errors.Is(err, store.ErrDuplicateVote):
		slog.Info("duplicate vote", "poll_id", poll.ID, "voter", voter)
		res.Outcome = models.OutcomeDuplicate
	case err != nil:
		slog.Error("failed to insert vote", "poll_id", poll.ID, "voter", voter, "error", err)
		return outcome(models.OutcomeInsertFailed)
	default:
		slog.Info("vote accepted", "poll_id", poll.ID, "voter", voter)
	}

	// The vote is durable at this point; a failed read only costs the totals.
	agg, err := e.store.Aggregate(ctx, poll.ID, len(poll.Options))
	if err != nil {
		slog.Error("failed to aggregate votes", "poll_id", poll.ID, "error", err)
		agg = models.ZeroAggregate(len(poll.Options))
	}

	res.OptionTotals = agg.OptionTotals
	res.TotalVotes = agg.TotalVotes
	return res
}

func wellFormed(req models.VoteRequest) bool {
	if req.PollID == "" || req.OptionIdx == nil || req.Proof == nil {
		return false
	}
	p := req.Proof
	return p.Proof != "" && p.MerkleRoot != "" && p.NullifierHash != ""
}

// open requires now to be inside the current civil day and inside the
// poll's own [start, end) window. The cached status is not consulted.
func (e *Engine) open(poll models.Poll, now time.Time) bool {
	// The day always contains now; the poll window does the gating. Both
	// checks are kept so a window crossing midnight still admits votes.
	day := civilday.For(now, e.cfg.location())
	if !day.Contains(now) {
		return false
	}
	return !now.Before(poll.StartTS) && now.Before(poll.EndTS)
}

// verify calls the oracle with the poll id as signal. A timeout, an error,
// a negative verdict or a missing nullifier are all the same failure.
func (e *Engine) verify(ctx context.Context, pollID string, proof models.Proof) (string, bool) {
	if e.cfg.RequireOrb && proof.VerificationLevel != models.VerificationOrb {
		slog.Info("verification rejected, orb level required", "poll_id", pollID, "level", proof.VerificationLevel)
		return "", false
	}

	if e.cfg.VerifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.VerifyTimeout)
		defer cancel()
	}

	start := time.Now()
	v, err := e.verifier.Verify(ctx, proof, e.cfg.ActionID, pollID)
	e.metrics.ObserveVerify(time.Since(start))

	if err != nil {
		slog.Warn("proof verification failed", "poll_id", pollID, "error", err)
		return "", false
	}
	if !v.Success || v.NullifierHash == "" {
		slog.Info("proof rejected", "poll_id", pollID, "code", v.Code)
		return "", false
	}

	return v.NullifierHash, true
}

func outcome(o string) models.VoteResult {
	return models.VoteResult{Outcome: o}
}
