package gh

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	ghRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfetch_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	ghRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ghfetch_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	ghRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfetch_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// retryPolicy decides how many attempts a request gets and how long to wait
// between them, per error class.
type retryPolicy struct {
	// MaxAttempts is the total attempt budget per request. Rate-limit
	// waits do not count against it.
	MaxAttempts int

	// BaseDelay is the delay unit for backoff calculations.
	BaseDelay time.Duration
}

// defaultRetryPolicy mirrors the knobs the archiver has always shipped with.
func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		MaxAttempts: 3,
		BaseDelay:   5 * time.Second,
	}
}

// DelayFor returns the wait before the next attempt. Transport errors back
// off linearly with the attempt number; GraphQL application errors use the
// fixed base delay.
func (p retryPolicy) DelayFor(class ErrorClass, attempt int) time.Duration {
	if class == ErrorClassTransport {
		return p.BaseDelay * time.Duration(attempt)
	}
	return p.BaseDelay
}

// Exhausted reports whether the given attempt was the last one in budget.
func (p retryPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}

// sleep waits for d, honoring context cancellation. Observes the backoff
// duration for the given error class.
func sleep(ctx context.Context, class ErrorClass, d time.Duration) error {
	ghRetryBackoffSeconds.WithLabelValues(string(class)).Observe(d.Seconds())

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
