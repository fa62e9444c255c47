// Package metrics provides the centralized Prometheus registry reference for
// slack-objects. All metrics are defined in their respective packages
// (dispatch, webapi, scim) via promauto to keep them next to the code that
// drives them.
//
// This package documents the available metric families.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by slack-objects.
// All metrics are automatically registered via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Dispatch Metrics (pkg/dispatch):
//   - slack_throttle_retries_total{method} (Counter): retry attempts after throttle signals
//   - slack_throttle_wait_seconds{method} (Histogram): wait before each throttle retry
//   - slack_throttle_exhausted_total{method} (Counter): calls that spent the whole retry budget
//   - slack_pace_sleep_seconds{method} (Histogram): post-success pacing sleeps
//
// Web API Metrics (pkg/webapi):
//   - slack_webapi_requests_total{method, outcome} (Counter): calls by method and outcome (ok, not_ok, error)
//   - slack_webapi_request_duration_seconds{method} (Histogram): call duration including waits
//
// SCIM Metrics (pkg/scim):
//   - slack_scim_requests_total{resource, outcome} (Counter): calls by synthetic operation and outcome
//   - slack_scim_request_duration_seconds{resource} (Histogram): call duration including waits
//
// Example Prometheus Queries:
//
//   # Throttle pressure per method
//   rate(slack_throttle_retries_total[5m])
//
//   # Share of calls that exhausted the retry budget
//   rate(slack_throttle_exhausted_total[5m]) / rate(slack_webapi_requests_total[5m])
//
//   # P95 call latency (waits included)
//   histogram_quantile(0.95, rate(slack_webapi_request_duration_seconds_bucket[5m]))
//
//   # Envelope failures (ok=false / SCIM Errors)
//   rate(slack_webapi_requests_total{outcome="not_ok"}[5m])
