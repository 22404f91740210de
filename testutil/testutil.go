// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/danielhkuo/humanpoll/cliparse"
	"github.com/danielhkuo/humanpoll/db"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
)

// RejectedProof makes FakeVerifier answer with a negative verdict.
const RejectedProof = "rejected"

// SetupTestDB creates a fresh, migrated SQLite database in a temp dir.
// The pool is limited to one connection so concurrent tests exercise the
// engine rather than SQLite's locking.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return SetupTestDBPool(t, 1)
}

// SetupTestDBPool is SetupTestDB with up to maxConns connections, so
// concurrent statements really are in flight together. Writers wait on
// each other through busy_timeout.
func SetupTestDBPool(t *testing.T, maxConns int) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "humanpoll.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	if err := db.Migrate(db.TypeSQLite, url); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	conn, err := db.Open(db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(maxConns)

	t.Cleanup(func() { conn.Close() })

	return conn
}

// SetupTestStore returns a store over a fresh test database.
func SetupTestStore(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()

	conn := SetupTestDB(t)
	return store.New(conn, db.TypeSQLite), conn
}

// SetupTestStorePool returns a store over a fresh test database with up to
// maxConns connections.
func SetupTestStorePool(t *testing.T, maxConns int) (*store.Store, *sql.DB) {
	t.Helper()

	conn := SetupTestDBPool(t, maxConns)
	return store.New(conn, db.TypeSQLite), conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	loc, _ := time.LoadLocation("America/Toronto")

	return cliparse.Config{
		Port:            3318,
		DatabaseType:    db.TypeSQLite,
		Timezone:        "America/Toronto",
		Location:        loc,
		DailyPollCount:  1,
		WorldIDAppID:    "app_test",
		WorldIDActionID: "vote",
		VerifyTimeout:   2 * time.Second,
		AdminToken:      "test-admin-token",
		LogSalt:         "test-log-salt",
		LogLevel:        "info",
	}
}

// CreateTestPoll inserts a poll with the given window and status and
// returns its ID.
func CreateTestPoll(t *testing.T, s *store.Store, options []string, start, end time.Time, status string) string {
	t.Helper()

	pollID := uuid.NewString()
	err := s.CreatePoll(context.Background(), models.Poll{
		ID:        pollID,
		Question:  gofakeit.Question(),
		Options:   options,
		StartTS:   start,
		EndTS:     end,
		Status:    status,
		CreatedAt: start,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// CountVotes returns the number of vote rows for a poll.
func CountVotes(t *testing.T, conn *sql.DB, pollID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM vote WHERE poll_id = ?", pollID).Scan(&n); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// PollStatus returns the stored status of a poll.
func PollStatus(t *testing.T, conn *sql.DB, pollID string) string {
	t.Helper()

	var status string
	if err := conn.QueryRow("SELECT status FROM poll WHERE id = ?", pollID).Scan(&status); err != nil {
		t.Fatalf("Failed to read poll status: %v", err)
	}
	return status
}

// ProofFor builds a well-formed proof for a test human. FakeVerifier
// derives the nullifier from the human and the signal, so the same human
// gets the same nullifier on a poll and a different one on another poll.
func ProofFor(human string) *models.Proof {
	return &models.Proof{
		MerkleRoot:        "0x" + hex.EncodeToString([]byte("root")),
		NullifierHash:     human,
		Proof:             "0x" + hex.EncodeToString([]byte(human)),
		VerificationLevel: models.VerificationOrb,
	}
}

// FakeVerifier stands in for the World ID verify endpoint.
type FakeVerifier struct {
	Err   error
	Delay time.Duration

	calls atomic.Int32

	mu      sync.Mutex
	signals []string
}

// Verify returns a positive verdict unless the proof is RejectedProof or
// Err is set. Delay is honoured against ctx so timeouts can be tested.
func (f *FakeVerifier) Verify(ctx context.Context, proof models.Proof, actionID, signal string) (models.Verification, error) {
	f.calls.Add(1)

	f.mu.Lock()
	f.signals = append(f.signals, signal)
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return models.Verification{}, ctx.Err()
		}
	}

	if f.Err != nil {
		return models.Verification{}, f.Err
	}

	if proof.Proof == RejectedProof {
		return models.Verification{Success: false, Code: "invalid_proof"}, nil
	}

	if actionID == "" {
		return models.Verification{}, errors.New("missing action")
	}

	return models.Verification{Success: true, NullifierHash: Nullifier(proof.NullifierHash, signal)}, nil
}

// Calls reports how many times Verify ran.
func (f *FakeVerifier) Calls() int {
	return int(f.calls.Load())
}

// Signals returns the signals Verify was called with.
func (f *FakeVerifier) Signals() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.signals...)
}

// Nullifier is the nullifier FakeVerifier issues for human on signal.
func Nullifier(human, signal string) string {
	sum := sha256.Sum256([]byte(human + "|" + signal))
	return "0x" + hex.EncodeToString(sum[:])
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
