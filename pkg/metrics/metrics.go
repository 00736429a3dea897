// Package metrics provides the centralized Prometheus metrics registry for
// the discussions archiver. All metrics are defined in their respective
// packages (gh, ratelimit, checkpoint, fetcher) to maintain modularity and
// avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the archiver.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/gh):
//   - ghfetch_requests_total{status} (Counter): GraphQL requests by HTTP status or network_error
//   - ghfetch_request_duration_seconds (Histogram): request duration
//   - ghfetch_errors_total{class} (Counter): errors by class (transport, graphql, rate_limit)
//
// Retry Metrics (pkg/gh):
//   - ghfetch_retries_total{error_class} (Counter): retry attempts by error class
//   - ghfetch_retry_backoff_seconds{error_class} (Histogram): backoff duration by error class
//   - ghfetch_retry_exhausted_total{error_class} (Counter): requests that exhausted the retry budget
//
// Rate Limit Metrics (pkg/ratelimit):
//   - ghfetch_rate_limit_remaining (Gauge): points remaining in the current window
//   - ghfetch_rate_limit_waits_total (Counter): waits triggered by rate limit errors
//
// Checkpoint Metrics (pkg/checkpoint):
//   - ghfetch_checkpoint_saves_total{backend, status} (Counter): save attempts
//   - ghfetch_checkpoint_loads_total{backend, status} (Counter): load attempts
//   - ghfetch_checkpoint_size_bytes{backend} (Gauge): serialized checkpoint size
//
// Fetch Loop Metrics (pkg/fetcher):
//   - ghfetch_pages_total{outcome} (Counter): pages processed by outcome (ok, stopped, failed)
//   - ghfetch_discussions_accumulated (Gauge): discussions accumulated by the current run
//
// Example Prometheus Queries:
//
//   # Retry rate
//   rate(ghfetch_retries_total[5m])
//
//   # Remaining rate limit budget
//   ghfetch_rate_limit_remaining < 500
//
//   # Checkpoint save failures
//   rate(ghfetch_checkpoint_saves_total{status="error"}[5m])
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(ghfetch_request_duration_seconds_bucket[5m]))
