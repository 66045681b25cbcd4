package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/pqcgraph/pkg/cache"
	"github.com/matzehuels/pqcgraph/pkg/observability"
)

// MaxBodySize caps a fetched document.
const MaxBodySize = 32 << 20

// Client fetches remote dataset documents with retry and caching.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache caches successful responses in cc for ttl.
func WithCache(cc cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.keyer = keyer
		c.ttl = ttl
	}
}

// WithRetry overrides the retry policy.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient returns a Client with a 30s timeout, no cache, and 3 attempts
// starting at a 1s backoff.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: 30 * time.Second},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		attempts: 3,
		delay:    time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body of a GET to rawURL.
//
// A 404 yields an error wrapping [cache.ErrNotFound]; transport failures
// and 5xx responses are retried and then yield an error wrapping
// [cache.ErrNetwork].
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	key := c.keyer.DocumentKey(rawURL)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "document")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "document")

	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "document", len(body))
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", rawURL, cache.ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, Retryable(fmt.Errorf("%w: %s returned %d", cache.ErrNetwork, rawURL, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s returned %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, Retryable(fmt.Errorf("%w: read %s: %v", cache.ErrNetwork, rawURL, err))
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("%s exceeds %d bytes", rawURL, MaxBodySize)
	}
	return body, nil
}
