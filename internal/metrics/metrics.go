package metrics

import "github.com/prometheus/client_golang/prometheus"

// Client Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chowgo",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"},
	)

	SearchRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chowgo",
			Name:      "search_request_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	StreamEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chowgo",
			Name:      "stream_events_total",
			Help:      "Total SSE events decoded, by event type",
		},
		[]string{"type"},
	)

	StreamsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chowgo",
			Name:      "streams_total",
			Help:      "Total chat streams by terminal outcome",
		},
		[]string{"outcome"}, // "completed" / "failed" / "aborted"
	)

	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chowgo",
			Name:      "store_operations_total",
			Help:      "Session store operations by op and result",
		},
		[]string{"op", "result"},
	)

	StoreEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chowgo",
			Name:      "store_evictions_total",
			Help:      "Expired entries evicted by the store sweep",
		},
	)
)

var clientMetricsRegistered bool

// RegisterClientMetrics registers Prometheus client metrics. Must be called
// once from main; the SDK never registers on the default registry itself.
func RegisterClientMetrics() {
	if clientMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(StreamEventsTotal)
	prometheus.MustRegister(StreamsTotal)
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreEvictionsTotal)
	clientMetricsRegistered = true
}
