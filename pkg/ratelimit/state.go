// Package ratelimit interprets GitHub API rate-limit signaling. It parses
// the X-RateLimit-* response headers and classifies GraphQL error messages
// that indicate an exhausted rate limit, so the client knows how long to
// wait before the limit window resets.
package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResetBuffer is added on top of the advertised reset time before retrying,
// to absorb clock skew between this process and the API servers.
const ResetBuffer = 5 * time.Second

// Prometheus metrics for rate limit tracking.
var (
	ghRateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ghfetch_rate_limit_remaining",
		Help: "Points remaining in the current GitHub rate limit window",
	})

	ghRateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ghfetch_rate_limit_waits_total",
		Help: "Total number of waits triggered by rate limit errors",
	})
)

// State is a snapshot of the GitHub rate limit window as reported by
// response headers.
type State struct {
	// Limit is the total point budget of the window (X-RateLimit-Limit).
	Limit int

	// Remaining is the points left in the window (X-RateLimit-Remaining).
	Remaining int

	// ResetAt is when the window resets (X-RateLimit-Reset, Unix epoch).
	ResetAt time.Time

	// LastUpdate is when this snapshot was taken.
	LastUpdate time.Time
}

// FromHeaders parses the X-RateLimit-* headers into a State. The second
// return value is false when the reset header is absent or unparseable,
// which happens on responses that never touched the rate limiter.
func FromHeaders(h http.Header) (*State, bool) {
	resetStr := h.Get("X-RateLimit-Reset")
	if resetStr == "" {
		return nil, false
	}

	resetEpoch, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil || resetEpoch == 0 {
		return nil, false
	}

	state := &State{
		ResetAt:    time.Unix(resetEpoch, 0),
		LastUpdate: time.Now(),
	}

	if limit, err := strconv.Atoi(h.Get("X-RateLimit-Limit")); err == nil {
		state.Limit = limit
	}
	if remaining, err := strconv.Atoi(h.Get("X-RateLimit-Remaining")); err == nil {
		state.Remaining = remaining
		ghRateLimitRemaining.Set(float64(remaining))
	}

	return state, true
}

// TimeUntilReset returns how long until the window resets, floored at zero
// for reset times already in the past.
func (s *State) TimeUntilReset(now time.Time) time.Duration {
	d := s.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// WaitDuration returns how long a client should sleep before retrying a
// request that was rejected for rate limiting.
func (s *State) WaitDuration(now time.Time) time.Duration {
	ghRateLimitWaitsTotal.Inc()
	return s.TimeUntilReset(now) + ResetBuffer
}

// IsStale reports whether the snapshot is older than maxAge.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// IsRateLimitMessage reports whether a GraphQL error message signals a
// rate-limit condition. The check is a case-insensitive substring match on
// the wording the API currently uses; treat it as best effort, not an
// exhaustive classification.
func IsRateLimitMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "rate limit")
}
