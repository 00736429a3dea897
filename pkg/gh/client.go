// Package gh implements the GitHub GraphQL request executor used by the
// discussions archiver: a single-query client with transient-error retry,
// linear backoff, and rate-limit aware waiting.
package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/helloamger/discussions-archiver/pkg/ratelimit"
)

// DefaultEndpoint is the GitHub GraphQL API endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 30 * time.Second

// Prometheus metrics for request execution.
var (
	ghRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfetch_requests_total",
		Help: "Total GraphQL requests by outcome",
	}, []string{"status"})

	ghRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ghfetch_request_duration_seconds",
		Help:    "GraphQL request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	ghErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfetch_errors_total",
		Help: "Total request errors by class",
	}, []string{"class"})
)

// Config holds the executor configuration.
type Config struct {
	// Token is the GitHub API token. An empty token sends unauthenticated
	// requests; the resulting API error surfaces through the normal error
	// path rather than being validated up front.
	Token string

	// Endpoint is the GraphQL endpoint URL (default: DefaultEndpoint).
	Endpoint string

	// MaxRetries is the total attempt budget per query (default: 3).
	// Rate-limit waits do not consume attempts.
	MaxRetries int

	// RetryDelay is the base delay between attempts (default: 5s).
	// Transport failures back off linearly: RetryDelay * attempt.
	RetryDelay time.Duration

	// HTTPClient overrides the default HTTP client (for testing).
	HTTPClient *http.Client
}

// DefaultConfig returns the executor configuration the CLI ships with.
func DefaultConfig(token string) Config {
	return Config{
		Token:      token,
		Endpoint:   DefaultEndpoint,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
	}
}

// Client executes GraphQL queries against the GitHub API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	policy     retryPolicy
	logger     zerolog.Logger
}

// New creates a new executor from cfg, filling in defaults for zero fields.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	policy := defaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		policy.BaseDelay = cfg.RetryDelay
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient = &http.Client{
			Timeout:   httpClient.Timeout,
			Transport: &oauth2.Transport{Source: src, Base: httpClient.Transport},
		}
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   cfg.Endpoint,
		policy:     policy,
		logger:     log.With().Str("component", "gh-client").Logger(),
	}
}

// Execute sends one GraphQL query and returns the parsed response.
//
// Transport failures (timeouts, connection errors, non-2xx statuses) and
// GraphQL application errors are retried within the policy's attempt
// budget; rate-limit errors sleep until the advertised window reset and
// retry without consuming an attempt. When the budget is exhausted the
// last cause is returned wrapped in a *FetchError.
func (c *Client) Execute(ctx context.Context, query string) (*Response, error) {
	attempt := 1
	for {
		resp, headers, err := c.post(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}

			ghErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
			c.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", c.policy.MaxAttempts).
				Msg("Request failed")

			if c.policy.Exhausted(attempt) {
				ghRetryExhaustedTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
				return nil, &FetchError{Class: ErrorClassTransport, Attempts: attempt, Err: err}
			}

			wait := c.policy.DelayFor(ErrorClassTransport, attempt)
			ghRetriesTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
			c.logger.Info().Dur("backoff", wait).Msg("Retrying after backoff")
			if err := sleep(ctx, ErrorClassTransport, wait); err != nil {
				return nil, err
			}
			attempt++
			continue
		}

		if len(resp.Errors) > 0 {
			msg := resp.Errors[0].Message
			c.logger.Warn().
				Str("graphql_error", msg).
				Int("attempt", attempt).
				Msg("GraphQL error in response")

			if ratelimit.IsRateLimitMessage(msg) {
				if state, ok := ratelimit.FromHeaders(headers); ok {
					ghErrorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
					wait := state.WaitDuration(time.Now())
					c.logger.Warn().
						Dur("wait", wait).
						Time("reset_at", state.ResetAt).
						Msg("Rate limit reached, waiting for window reset")

					if err := sleep(ctx, ErrorClassRateLimit, wait); err != nil {
						return nil, err
					}
					// Rate-limit waits do not consume the attempt
					// budget; the counter is not advanced here.
					continue
				}
			}

			ghErrorsTotal.WithLabelValues(string(ErrorClassGraphQL)).Inc()
			if c.policy.Exhausted(attempt) {
				ghRetryExhaustedTotal.WithLabelValues(string(ErrorClassGraphQL)).Inc()
				return nil, &FetchError{
					Class:    ErrorClassGraphQL,
					Attempts: attempt,
					Err:      fmt.Errorf("graphql error: %s", msg),
				}
			}

			ghRetriesTotal.WithLabelValues(string(ErrorClassGraphQL)).Inc()
			if err := sleep(ctx, ErrorClassGraphQL, c.policy.DelayFor(ErrorClassGraphQL, attempt)); err != nil {
				return nil, err
			}
			attempt++
			continue
		}

		return resp, nil
	}
}

// post sends a single GraphQL request and parses the response body.
// The response headers are returned alongside so callers can read
// rate-limit metadata even for error responses.
func (c *Client) post(ctx context.Context, query string) (*Response, http.Header, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	ghRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		ghRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, nil, err
	}
	defer resp.Body.Close()

	ghRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused across retries.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.Header, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var parsed Response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, resp.Header, fmt.Errorf("decode response: %w", err)
	}

	return &parsed, resp.Header, nil
}
