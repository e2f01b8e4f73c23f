package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Backend and cache Prometheus metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexsearch",
			Name:      "backend_requests_total",
			Help:      "Total number of document backend requests",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lexsearch",
			Name:      "backend_request_duration_seconds",
			Help:      "Document backend request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	DateRangeSampleFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexsearch",
			Name:      "date_range_sample_failures_total",
			Help:      "Date range samples that failed and were treated as no signal",
		},
		[]string{"field", "order"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexsearch",
			Name:      "cache_total",
			Help:      "Cache hits and misses",
		},
		[]string{"cache", "result"}, // result: "hit" / "miss"
	)

	BatchPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lexsearch",
			Name:      "batch_polls_total",
			Help:      "Batch job status polls by observed status",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Register registers every lexsearch collector on the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpResponseBytes,
			httpRequestsInFlight,
			BackendRequestsTotal,
			BackendRequestDuration,
			DateRangeSampleFailuresTotal,
			CacheTotal,
			BatchPollsTotal,
		)
	})
}
