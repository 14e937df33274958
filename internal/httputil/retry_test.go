// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// scripted serves the given statuses in order, repeating the last one, and
// records every request body it sees.
type scripted struct {
	mu       sync.Mutex
	statuses []int
	bodies   []string
}

func (s *scripted) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	n := len(s.bodies)
	s.bodies = append(s.bodies, string(b))
	s.mu.Unlock()
	w.WriteHeader(s.statuses[min(n, len(s.statuses)-1)])
}

func (s *scripted) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int
	}{
		{"success first try", []int{200}, 5, 200, 1},
		{"rate limited then ok", []int{429, 429, 200}, 5, 200, 3},
		{"unavailable then ok", []int{503, 200}, 2, 200, 2},
		{"exhausts retries", []int{429}, 3, 429, 4},
		{"default retry budget", []int{429}, 0, 429, 6},
		{"client errors are final", []int{404, 200}, 5, 404, 1},
		{"server errors are final", []int{500, 200}, 5, 500, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &scripted{statuses: tc.statuses}
			ts := httptest.NewServer(h)
			defer ts.Close()

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tc.maxRetries)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantCalls, h.calls())
		})
	}
}

func TestDoWithRetryReplaysBody(t *testing.T) {
	h := &scripted{statuses: []int{503, 200}}
	ts := httptest.NewServer(h)
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL, strings.NewReader(`{"prompt":"stick figures"}`))
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 2)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{`{"prompt":"stick figures"}`, `{"prompt":"stick figures"}`}, h.bodies)
}

func TestDoWithRetryStopsOnCancel(t *testing.T) {
	ts := httptest.NewServer(&scripted{statuses: []int{429}})
	defer ts.Close()

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoWithRetryNilClient(t *testing.T) {
	ts := httptest.NewServer(&scripted{statuses: []int{200}})
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := DoWithRetry(context.Background(), nil, req, 1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt    int
		retryAfter string
		want       time.Duration
	}{
		{0, "", RetryBaseDelay},
		{2, "soon", 4 * RetryBaseDelay},
		{0, "3", 3 * time.Second},
		{0, "86400", MaxRetryAfter},
		{1, "-1", 2 * RetryBaseDelay},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, backoff(tc.attempt, tc.retryAfter), "attempt %d retry-after %q", tc.attempt, tc.retryAfter)
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(http.StatusTooManyRequests))
	assert.True(t, Retryable(http.StatusServiceUnavailable))
	assert.False(t, Retryable(http.StatusInternalServerError))
	assert.False(t, Retryable(http.StatusOK))
}
