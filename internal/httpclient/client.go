// Package httpclient provides the single shared outbound HTTP client used
// by every upstream provider adapter (C4), modeled on the bare
// net/http.Client pattern the rest of this codebase uses for outbound
// calls — no third-party HTTP library appears anywhere upstream of this
// package, so the stdlib client with a tuned Transport is the idiomatic
// choice here too.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"
)

const (
	totalTimeout   = 15 * time.Second
	connectTimeout = 5 * time.Second
	readTimeout    = 10 * time.Second

	maxIdleConns        = 100
	maxIdleConnsPerHost = 30

	dnsCacheTTL = 300 * time.Second

	maxAttempts  = 3
	backoffFloor = 1 * time.Second
	backoffCeil  = 4 * time.Second
)

// Client wraps a single shared *http.Client sized for fan-out calls to
// weather providers: bounded connection pool, fixed timeouts, and a
// narrow retry policy that only fires on 429 and 503.
type Client struct {
	http *http.Client
}

// New builds the shared client with the package's default pool sizing and
// timeout. Callers should construct exactly one instance per process and
// pass it to every provider adapter.
func New() *Client {
	return NewWithLimits(maxIdleConns, maxIdleConnsPerHost, totalTimeout)
}

// NewWithLimits builds the shared client with an operator-tunable pool size
// and request timeout (spec: "concurrency bounds... are tuning parameters
// exposed as configuration").
func NewWithLimits(maxConnsTotal, maxConnsPerHost int, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        maxConnsTotal,
		MaxIdleConnsPerHost: maxConnsPerHost,
		IdleConnTimeout:     dnsCacheTTL,
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: readTimeout,
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Get issues a GET request with the retry policy from C4: retry only on
// 429 and 503, exponential backoff between backoffFloor and backoffCeil,
// at most maxAttempts total attempts. The response body is fully read and
// returned so the caller never has to manage Close().
func (c *Client) Get(ctx context.Context, url string) ([]byte, int, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, 0, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if !waitForRetry(ctx, attempt) {
				return nil, 0, lastErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, readErr
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			lastErr = fmt.Errorf("upstream returned %d", resp.StatusCode)
			if attempt < maxAttempts && waitForRetry(ctx, attempt) {
				continue
			}
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

// waitForRetry sleeps for the backoff window of the given attempt and
// reports whether the caller should retry (false if ctx was canceled).
func waitForRetry(ctx context.Context, attempt int) bool {
	backoff := backoffFloor * time.Duration(math.Pow(2, float64(attempt-1)))
	if backoff > backoffCeil {
		backoff = backoffCeil
	}

	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
