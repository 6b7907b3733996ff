// Package metrics exposes Prometheus instrumentation for the CMS client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventclient"

// Registry is the global Prometheus registry for all client metrics.
var Registry = prometheus.NewRegistry()

// APIRequestsTotal counts CMS API requests by operation and outcome status.
var APIRequestsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of CMS API requests",
	},
	[]string{"operation", "status"},
)

// APIRequestDuration records CMS API request latency in seconds.
var APIRequestDuration = promauto.With(Registry).NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "CMS API request latency in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	},
	[]string{"operation"},
)

// SessionReloads counts session store reloads triggered by external
// auth-changed signals.
var SessionReloads = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_reloads_total",
		Help:      "Total number of session reloads from external signals",
	},
)

// ObserveRequest records one completed API request.
func ObserveRequest(operation, status string, start time.Time) {
	APIRequestsTotal.WithLabelValues(operation, status).Inc()
	APIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
