package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	userAgent       = "movie-discovery-bff/1.0"
	maxResponseSize = 10 << 20
)

// Options tunes request policy. Zero values fall back to the defaults below.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// RateLimit is the sustained outbound requests per second; <= 0 disables limiting.
	RateLimit float64
}

// Client is the TMDB API client. All provider traffic goes through Fetch so
// timeout, retry and rate limit policy live in one place.
type Client struct {
	apiKey     string
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 200 * time.Millisecond
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		http: &http.Client{
			Timeout: opts.Timeout,
		},
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// StatusError is returned when TMDB answers with a non-200 status.
// The provider body is not kept.
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d for %s", e.StatusCode, e.Path)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Fetch performs a GET against path with the given query and returns the raw
// JSON body. Transient network failures are retried with exponential backoff.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)
	target := c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + q.Encode()

	slog.Debug("fetching TMDB", "path", path, "query", query.Encode())

	return retry.DoWithData(
		func() (json.RawMessage, error) {
			return c.doGet(ctx, path, target)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("retrying TMDB request", "path", path, "attempt", n+1, "error", err)
		}),
	)
}

func (c *Client) doGet(ctx context.Context, path, target string) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("TMDB rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redactKey(ue.URL)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read TMDB response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Debug("TMDB error response", "path", path, "status", resp.StatusCode, "body_bytes", len(body))
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("TMDB returned invalid JSON for %s", path)
	}
	return body, nil
}

// redactKey strips the api_key query parameter from rawURL.
func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Del("api_key")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// IsTransient reports whether err is a network-level failure worth retrying:
// the request never produced a response and did not time out or get cancelled.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}
