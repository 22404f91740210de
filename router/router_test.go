// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/humanpoll/db"
	"github.com/danielhkuo/humanpoll/metrics"
	"github.com/danielhkuo/humanpoll/models"
	"github.com/danielhkuo/humanpoll/store"
	"github.com/danielhkuo/humanpoll/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	reg := prometheus.NewRegistry()

	mux := NewRouter(conn, cfg, &testutil.FakeVerifier{}, metrics.New(reg), reg)
	return mux, store.New(conn, db.TypeSQLite)
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "humanpoll API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	// Unknown paths are not swallowed by the root handler
	req = httptest.NewRequest("GET", "/nope", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// 400, 401 and 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"POST", "/api/vote"},
		{"GET", "/api/polls/live"},
		{"GET", "/api/results"},
		{"POST", "/api/admin/advance"},
		{"POST", "/api/admin/reset-vote"},
		{"POST", "/api/admin/polls"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed || strings.Contains(w.Body.String(), "404 page not found") {
				t.Errorf("Route %s %s returned %d, expected route handler to exist", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"GET", "/api/vote"},
		{"DELETE", "/api/results"},
		{"GET", "/api/admin/advance"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestVoteThroughRouter(t *testing.T) {
	mux, s := newTestRouter(t)
	now := time.Now()
	pollID := testutil.CreateTestPoll(t, s, []string{"Yes", "No"}, now.Add(-time.Hour), now.Add(time.Hour), models.StatusLive)

	zero := 0
	body := models.VoteRequest{PollID: pollID, OptionIdx: &zero, Proof: testutil.ProofFor("H1")}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/vote", body, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/vote", body, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// The outcomes show up on /metrics
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	out := w.Body.String()
	for _, want := range []string{
		`humanpoll_votes_total{outcome="accepted"} 1`,
		`humanpoll_votes_total{outcome="duplicate"} 1`,
		`humanpoll_http_requests_total{code="409",route="POST /api/vote"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected metrics to contain %q", want)
		}
	}
}
