package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTransport fails with a connection error a fixed number of times before
// passing requests to the wrapped transport.
type flakyTransport struct {
	failures int
	calls    int
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection refused")
	}
	return f.next.RoundTrip(req)
}

func testClient(baseURL string, transport http.RoundTripper) *Client {
	return New(Config{
		BaseURL:      baseURL,
		RetryCycles:  3,
		RetryTimeout: time.Millisecond,
		HTTPClient:   &http.Client{Transport: transport},
	})
}

// TestDoRetriesConnectionErrors verifies that a request succeeds after
// transient connection failures within the configured cycle count.
func TestDoRetriesConnectionErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	transport := &flakyTransport{failures: 2, next: http.DefaultTransport}
	c := testClient(srv.URL, transport)

	res, err := c.do(context.Background(), http.MethodGet, "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, 3, transport.calls, "two failures plus the successful attempt")
	assert.Equal(t, 1, hits, "only one request reaches the server")
}

// TestDoGivesUpAfterConfiguredCycles verifies that attempts stop at the
// cycle budget and the connection error is surfaced.
func TestDoGivesUpAfterConfiguredCycles(t *testing.T) {
	transport := &flakyTransport{failures: 100, next: http.DefaultTransport}
	c := testClient("http://localhost:0", transport)

	_, err := c.do(context.Background(), http.MethodGet, "ping", nil)
	require.Error(t, err)
	assert.Equal(t, 3, transport.calls)
}

// TestDoDoesNotRetryHTTPErrors verifies that an error status from the
// service counts as a completed request: no retry happens.
func TestDoDoesNotRetryHTTPErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, http.DefaultTransport)

	res, err := c.do(context.Background(), http.MethodGet, "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, res.status)
	assert.Equal(t, 1, hits)
}

// TestDoCancelledContextStopsRetrying verifies the retry loop honors context
// cancellation between attempts.
func TestDoCancelledContextStopsRetrying(t *testing.T) {
	transport := &flakyTransport{failures: 100, next: http.DefaultTransport}
	c := New(Config{
		BaseURL:      "http://localhost:0",
		RetryCycles:  50,
		RetryTimeout: 50 * time.Millisecond,
		HTTPClient:   &http.Client{Transport: transport},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_, err := c.do(ctx, http.MethodGet, "ping", nil)
	require.Error(t, err)
	assert.Less(t, transport.calls, 50)
}

// TestDoSendsAPIKeyHeader verifies every request carries the configured key.
func TestDoSendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("API-Key")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Key: "secret"})
	_, err := c.do(context.Background(), http.MethodGet, "ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}
