package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves category extracts over HTTP. It shares one
// http.Client across fetches for connection reuse; the client itself
// carries no timeout, the per-request deadline below does.
type Fetcher struct {
	client *http.Client

	// userAgent identifies psmap to the open-data platform.
	userAgent string

	// maxBodySize caps the payload read from the origin.
	maxBodySize int64

	// timeout bounds one attempt, transfer included. A stalled
	// download fails fast instead of hanging a user interaction.
	timeout time.Duration

	// retries is how many extra attempts follow a transient failure.
	retries int

	// retryDelay is the pause before a retry attempt.
	retryDelay time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets the User-Agent header sent with fetch requests.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the payload size read from the origin.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithRetries sets how many extra attempts follow a transient failure.
// Zero disables retrying.
func WithRetries(n int) FetcherOption {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retries = n
		}
	}
}

// WithRetryDelay sets the pause before a retry attempt.
func WithRetryDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d >= 0 {
			f.retryDelay = d
		}
	}
}

// NewFetcher returns a Fetcher with production defaults: 60s per
// attempt, 256MB cap, one retry after two seconds.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{},
		userAgent:   "psmap/1.0 (+https://github.com/opensante/psmap)",
		maxBodySize: 256 * 1024 * 1024,
		timeout:     60 * time.Second,
		retries:     1,
		retryDelay:  2 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the extract at url and returns the raw payload.
// Transient failures (connection errors, timeouts, 5xx responses) are
// retried once per configured retry; 4xx responses are not, since the
// origin has answered and will answer the same way again. Every
// failure wraps ErrSourceUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, ctx.Err())
			case <-time.After(f.retryDelay):
			}
		}

		payload, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

// fetchOnce performs a single attempt. retryable reports whether a
// further attempt could succeed.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (payload []byte, retryable bool, err error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: build request for %s: %v", ErrSourceUnavailable, url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		// Connection failures and timeouts are worth one more try
		// unless the caller's context is already gone.
		return nil, ctx.Err() == nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, url, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("%w: fetch %s: unexpected status %s", ErrSourceUnavailable, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, url, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, false, fmt.Errorf("%w: fetch %s: payload exceeds %d bytes", ErrSourceUnavailable, url, f.maxBodySize)
	}
	return body, false, nil
}
