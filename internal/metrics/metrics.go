// Package metrics exposes the journal's Prometheus counters.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the process-wide collectors. All names are prefixed with
// "journal_".
//
//   - journal_http_requests_total{method,route,status}
//   - journal_http_request_duration_seconds{method,route}
//   - journal_auth_events_total{event}: signed_up, signed_in, signed_out, failed
//   - journal_entry_writes_total{op}: create, update, delete
//   - journal_reflections_total{outcome}: ok, empty, error, unconfigured
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthEventsTotal     *prometheus.CounterVec
	EntryWritesTotal    *prometheus.CounterVec
	ReflectionsTotal    *prometheus.CounterVec
}

// NewMetrics registers the collectors on the default registry once and
// returns the shared instance on every call.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "journal_http_requests_total",
					Help: "Total number of HTTP requests served",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "journal_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
				},
				[]string{"method", "route"},
			),
			AuthEventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "journal_auth_events_total",
					Help: "Total number of authentication events",
				},
				[]string{"event"},
			),
			EntryWritesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "journal_entry_writes_total",
					Help: "Total number of journal entry writes",
				},
				[]string{"op"},
			),
			ReflectionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "journal_reflections_total",
					Help: "Total number of reflection requests by outcome",
				},
				[]string{"outcome"},
			),
		}
	})
	return globalMetrics
}
