// Package espn talks to the public ESPN golf leaderboard endpoint.
package espn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("espn: feed temporarily unavailable")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("espn: unexpected status %d from %s", e.StatusCode, e.URL)
}

// Temporary reports whether retrying might help.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Fetcher returns the raw body of one leaderboard request.
type Fetcher interface {
	// Fetch requests the leaderboard; dates is an optional YYYYMMDD filter.
	Fetch(ctx context.Context, dates string) ([]byte, error)
}

// ClientConfig configures HTTPClient.
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	UserAgent         string
}

// HTTPClient fetches the feed over HTTP with pacing, retries and a breaker.
type HTTPClient struct {
	baseURL    string
	userAgent  string
	maxRetries int
	http       *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

var _ Fetcher = (*HTTPClient)(nil)

// NewHTTPClient builds a client. A nil httpClient gets one with cfg.Timeout.
func NewHTTPClient(cfg ClientConfig, httpClient *http.Client, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "pga-leaderboard/1.1"
	}

	c := &HTTPClient{
		baseURL:    cfg.BaseURL,
		userAgent:  ua,
		maxRetries: cfg.MaxRetries,
		http:       httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "espn",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return !se.Temporary()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				attr.String("breaker", name),
				attr.String("from", from.String()),
				attr.String("to", to.String()),
			)
		},
	})
	return c
}

// Fetch performs the GET, retrying transient failures.
func (c *HTTPClient) Fetch(ctx context.Context, dates string) ([]byte, error) {
	endpoint, err := c.endpoint(dates)
	if err != nil {
		return nil, err
	}

	var policy backoff.BackOff = backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(250*time.Millisecond),
		backoff.WithMaxElapsedTime(30*time.Second),
	)
	if c.maxRetries >= 0 {
		policy = backoff.WithMaxRetries(policy, uint64(c.maxRetries))
	}

	attempt := 0
	var body []byte
	op := func() error {
		attempt++
		b, err := c.once(ctx, endpoint)
		if err == nil {
			body = b
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		c.logger.WarnContext(ctx, "Feed request failed, retrying",
			attr.ExtractCorrelationID(ctx),
			attr.String("url", endpoint),
			attr.Int("attempt", attempt),
			attr.Error(err),
		)
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *HTTPClient) endpoint(dates string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid feed url %q: %w", c.baseURL, err)
	}
	if dates != "" {
		q := u.Query()
		q.Set("dates", dates)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *HTTPClient) once(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("espn request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
		}

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read espn response: %w", err)
		}
		return b, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return out.([]byte), nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
