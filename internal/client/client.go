// Package client talks to the FullBor finance REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/fullbor/finance-mcp/internal/apperrors"
	"github.com/fullbor/finance-mcp/internal/auth"
	"github.com/fullbor/finance-mcp/internal/common"
	"github.com/fullbor/finance-mcp/internal/config"
)

// maxResponseSize caps response bodies to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20

const (
	DefaultTimeout       = 10 * time.Second
	DefaultRetries       = 3
	DefaultRetryInterval = time.Second
)

// Client is a rate-limited, retrying finance API client. Every request
// carries a bearer token from the configured TokenSource.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        auth.TokenSource
	logger        *common.Logger
	limiter       *rate.Limiter
	retries       int
	retryInterval time.Duration
	clientID      int64
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit limits outgoing requests. A non-positive rate disables limiting.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithRetries sets the total number of attempts per request.
func WithRetries(attempts int) Option {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retries = attempts
	}
}

// WithRetryInterval sets the initial backoff between attempts.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = d
	}
}

// WithClientID scopes every query without an explicit client id.
func WithClientID(id int64) Option {
	return func(c *Client) {
		c.clientID = id
	}
}

// New creates a client for baseURL.
func New(baseURL string, tokens auth.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		tokens:        tokens,
		logger:        common.NewSilentLogger(),
		limiter:       rate.NewLimiter(rate.Inf, 0),
		retries:       DefaultRetries,
		retryInterval: DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from API settings.
func NewFromConfig(cfg config.APIConfig, clientID int64, tokens auth.TokenSource, logger *common.Logger) *Client {
	return New(cfg.BaseURL, tokens,
		WithLogger(logger),
		WithTimeout(time.Duration(cfg.TimeoutMS)*time.Millisecond),
		WithRetries(cfg.RetryCount),
		WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		WithClientID(clientID),
	)
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a rate-limited, retried GET and decodes the JSON body into out.
// 4xx responses are not retried.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	attempt := 0
	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(apperrors.Timeout(path, err))
		}

		token, err := c.tokens.Token(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(apperrors.Unknown(fmt.Errorf("failed to create request: %w", err)))
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		c.logger.Debug().Str("method", http.MethodGet).Str("path", path).Str("query", query.Encode()).Int("attempt", attempt).Msg("API request")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)
		if err != nil {
			c.logger.Warn().Str("path", path).Int64("duration_ms", duration.Milliseconds()).Err(err).Msg("API request failed")
			if ctx.Err() != nil {
				return backoff.Permanent(apperrors.Timeout(path, ctx.Err()))
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return apperrors.Timeout(path, err)
			}
			return apperrors.Connection(path, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return apperrors.Connection(path, fmt.Errorf("failed to read response: %w", err))
		}

		c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Int("bytes", len(body)).Msg("API response")

		if resp.StatusCode >= 400 {
			apiErr := statusError(path, resp.StatusCode, body)
			if resp.StatusCode < 500 {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(apperrors.Unknown(fmt.Errorf("failed to parse response from %s: %w", path, err)))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retries-1)), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().Str("path", path).Int("attempt", attempt).Int("max_attempts", c.retries).Dur("wait", wait).Err(err).Msg("retrying API call")
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return apperrors.Timeout(path, err)
		}
		return apperrors.Unknown(err)
	}
	return nil
}

// statusError maps an HTTP failure status onto a failure kind. The body's
// {"error": "..."} message is used when present.
func statusError(path string, status int, body []byte) *apperrors.Error {
	msg := fmt.Sprintf("finance API returned %d", status)
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	switch {
	case status >= 500:
		return apperrors.Connection(path, errors.New(msg))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.Auth(msg, nil)
	case status == http.StatusNotFound:
		resource, id := resourceFromPath(path)
		return apperrors.NotFound(resource, id)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.Validation("", msg)
	default:
		return apperrors.Unknown(fmt.Errorf("%s (status %d)", msg, status))
	}
}

// resourceFromPath turns "/positions/42" into ("Position", "42").
func resourceFromPath(path string) (string, string) {
	collection, id, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	resource := "Resource"
	switch collection {
	case "positions":
		resource = "Position"
	case "transactions":
		resource = "Transaction"
	case "entities":
		resource = "Entity"
	}
	if id == "" {
		id = path
	}
	return resource, id
}
