// Package httpclient wraps a pooled, retrying HTTP client shared by
// every provider adapter: capped exponential backoff, a fixed
// retryable-status set, per-attempt timeout, and user-agent rotation.
package httpclient

import (
	"context"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// defaultUserAgents mirrors the five-entry rotation table carried over
// from the reference HTTP client, spanning Chrome/Firefox/Safari across
// Windows/macOS/Linux.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

var retryableStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Config tunes the client; all fields have the defaults named in
// SPEC_FULL.md §6.1 / spec §4.3.
type Config struct {
	TimeoutSeconds    float64
	MaxRetries        int
	MinWaitSeconds    float64
	MaxWaitSeconds    float64
	BackoffMultiplier float64
}

// DefaultConfig mirrors the reference retry defaults: min 2s, max 10s,
// multiplier 1.0.
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds:    30,
		MaxRetries:        3,
		MinWaitSeconds:    2,
		MaxWaitSeconds:    10,
		BackoffMultiplier: 1.0,
	}
}

// Client is the shared pooled HTTP client every provider adapter uses.
type Client struct {
	rh     *retryablehttp.Client
	logger *zap.Logger
}

// New builds a Client from cfg, wiring a custom CheckRetry and Backoff
// that reproduce spec §4.3's exact formula and retryable-status set.
func New(cfg Config, logger *zap.Logger) *Client {
	rh := retryablehttp.NewClient()
	rh.RetryMax = cfg.MaxRetries
	rh.RetryWaitMin = time.Duration(cfg.MinWaitSeconds * float64(time.Second))
	rh.RetryWaitMax = time.Duration(cfg.MaxWaitSeconds * float64(time.Second))
	rh.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds * float64(time.Second))
	rh.Logger = nil // the library's own logger is disabled; retry attempts are not logged

	rh.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		if resp != nil && retryableStatuses[resp.StatusCode] {
			return true, nil
		}
		return false, nil
	}

	rh.Backoff = func(min, max time.Duration, attempt int, resp *http.Response) time.Duration {
		wait := cfg.MinWaitSeconds * math.Pow(2, float64(attempt)) * cfg.BackoffMultiplier
		if wait > cfg.MaxWaitSeconds {
			wait = cfg.MaxWaitSeconds
		}
		return time.Duration(wait * float64(time.Second))
	}

	// once retries are exhausted, hand back the last response (e.g. a
	// 429 or 503) instead of replacing it with a "giving up" error
	rh.ErrorHandler = func(resp *http.Response, err error, numTries int) (*http.Response, error) {
		if err != nil && resp != nil {
			resp.Body.Close()
			return nil, err
		}
		return resp, err
	}

	rh.PrepareRetry = func(req *http.Request) error {
		// only a rotated default is replaced; a caller-supplied User-Agent is kept
		current := req.Header.Get("User-Agent")
		for _, ua := range defaultUserAgents {
			if ua == current {
				req.Header.Set("User-Agent", randomUserAgent())
				break
			}
		}
		return nil
	}

	return &Client{rh: rh, logger: logger}
}

func randomUserAgent() string {
	return defaultUserAgents[rand.Intn(len(defaultUserAgents))]
}

// Get issues a GET request with the given query params and headers,
// rotating the user-agent unless the caller supplied one explicitly.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) (*http.Response, error) {
	fullURL := rawURL
	if len(params) > 0 {
		fullURL = rawURL + "?" + params.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req, headers)
	return c.rh.Do(req)
}

// PostJSON issues a POST request with a JSON body.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyHeaders(req, headers)
	return c.rh.Do(req)
}

// PostForm issues a POST request with a url-encoded form body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.applyHeaders(req, headers)
	return c.rh.Do(req)
}

func (c *Client) applyHeaders(req *retryablehttp.Request, headers map[string]string) {
	req.Header.Set("User-Agent", randomUserAgent())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// Close releases the idle connections of the client's own pooled
// transport. Calling it more than once is safe.
func (c *Client) Close() {
	c.rh.HTTPClient.CloseIdleConnections()
}
