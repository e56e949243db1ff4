// Package apiclient implements the resilient HTTP/JSON client for the remote
// game service. Connection-level failures are retried with a constant delay;
// application-level failures (non-2xx statuses) are returned as typed results
// and mapped to domain errors by the endpoint wrappers.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultRetryCycles is the total number of connection attempts.
	DefaultRetryCycles = 3
	// DefaultRetryTimeout is the delay between connection attempts.
	DefaultRetryTimeout = time.Second
)

// Config holds client construction parameters.
type Config struct {
	BaseURL      string
	Key          string
	RetryCycles  int
	RetryTimeout time.Duration

	// HTTPClient overrides the transport; nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Client is a retrying HTTP/JSON client for the game service. It is stateless
// aside from shared default headers and safe for concurrent use.
type Client struct {
	baseURL string
	headers map[string]string
	httpc   *http.Client
	cycles  int
	delay   time.Duration
}

// New creates a Client from the given config, applying retry defaults.
func New(cfg Config) *Client {
	cycles := cfg.RetryCycles
	if cycles < 1 {
		cycles = DefaultRetryCycles
	}
	delay := cfg.RetryTimeout
	if delay <= 0 {
		delay = DefaultRetryTimeout
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if cfg.Key != "" {
		headers["API-Key"] = cfg.Key
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		httpc:   httpc,
		cycles:  cycles,
		delay:   delay,
	}
}

// result is a completed game service response: any received status counts as
// success at the transport level.
type result struct {
	status int
	body   []byte
}

// do issues one request, retrying connection-level failures up to the
// configured cycle count with a constant delay between attempts. After
// exhausting retries the last connection error is returned.
func (c *Client) do(ctx context.Context, method, path string, payload any) (result, error) {
	var body []byte
	if payload != nil {
		var err error
		if body, err = json.Marshal(payload); err != nil {
			return result{}, fmt.Errorf("encode request: %w", err)
		}
	}

	op := func() (result, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, bytes.NewReader(body))
		if err != nil {
			return result{}, backoff.Permanent(err)
		}
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			// Host unreachable, timeout before any response: retryable.
			return result{}, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return result{}, err
		}
		return result{status: resp.StatusCode, body: data}, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.delay), uint64(c.cycles-1)),
		ctx,
	)
	return backoff.RetryWithData(op, policy)
}

// decode is intentionally not generic over endpoints: each wrapper maps its
// own statuses first and only then decodes the body.
func decode(res result, v any) error {
	if res.status < 200 || res.status >= 300 {
		return fmt.Errorf("game service: unexpected status %d", res.status)
	}
	if err := json.Unmarshal(res.body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
