// Package metrics defines and registers all custom Prometheus metrics for
// the carrier gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry via promauto at package load;
// the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carrier_gateway"

// CarrierRequestsTotal counts completed carrier calls.
// Labels:
//   - carrier: lower-cased carrier name (e.g. "fedex")
//   - operation: logical operation (e.g. "rates", "track")
//   - outcome: "success", "carrier_failure" or "transport_error"
var CarrierRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carrier_requests_total",
		Help:      "Total number of carrier calls, by carrier, operation and outcome.",
	},
	[]string{"carrier", "operation", "outcome"},
)

// CarrierRequestDuration measures the full round-trip of one carrier call,
// request build to response parse.
// Labels:
//   - carrier, operation: as above
var CarrierRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "carrier_request_duration_seconds",
		Help:      "Duration of carrier calls from request build to response parse.",
		Buckets:   prometheus.DefBuckets, // .005 … 10
	},
	[]string{"carrier", "operation"},
)

// RatesReturned observes how many rate estimates a successful quote
// produced.
// Label:
//   - carrier
var RatesReturned = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rates_returned",
		Help:      "Number of rate estimates returned per successful quote.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20},
	},
	[]string{"carrier"},
)

// RefreshQueueDepth tracks the number of tracking-refresh jobs waiting in
// each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of tracking-refresh jobs pending per worker.",
	},
	[]string{"worker_id"},
)

// RefreshJobsTotal counts tracking-refresh jobs by outcome.
// Label:
//   - outcome: "delivered", "in_flight", "failed"
var RefreshJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_jobs_total",
		Help:      "Total number of processed tracking-refresh jobs, by outcome.",
	},
	[]string{"outcome"},
)
