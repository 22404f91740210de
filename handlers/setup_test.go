// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/humanpoll/cliparse"
	"github.com/danielhkuo/humanpoll/lifecycle"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
	"github.com/danielhkuo/humanpoll/testutil"
	"github.com/danielhkuo/humanpoll/voting"
)

// testEnv is the handler stack over a fresh SQLite database.
type testEnv struct {
	conn     *sql.DB
	store    *store.Store
	cfg      cliparse.Config
	verifier *testutil.FakeVerifier

	voting  *VotingHandler
	polls   *PollHandler
	results *ResultsHandler
	admin   *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, conn := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	verifier := &testutil.FakeVerifier{}

	vcfg := voting.Config{
		Location:       cfg.Location,
		ActionID:       cfg.WorldIDActionID,
		DailyPollCount: cfg.DailyPollCount,
		VerifyTimeout:  cfg.VerifyTimeout,
		LogSalt:        cfg.LogSalt,
	}
	advancer := lifecycle.New(s, nil, nil)
	catalog := voting.NewCatalog(s, advancer, vcfg)

	return &testEnv{
		conn:     conn,
		store:    s,
		cfg:      cfg,
		verifier: verifier,
		voting:   NewVotingHandler(voting.NewEngine(s, verifier, vcfg, nil)),
		polls:    NewPollHandler(catalog),
		results:  NewResultsHandler(catalog),
		admin:    NewAdminHandler(s, advancer, cfg),
	}
}

func voteBody(pollID string, optionIdx int, human string) models.VoteRequest {
	return models.VoteRequest{PollID: pollID, OptionIdx: &optionIdx, Proof: testutil.ProofFor(human)}
}
