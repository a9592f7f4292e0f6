package coingecko

import "github.com/prometheus/client_golang/prometheus"

var (
	// Registry holds the collectors of this package.
	Registry = prometheus.NewRegistry()

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coins",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result (hit or miss).",
		},
		[]string{"result"},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coins",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream requests by resource and outcome.",
		},
		[]string{"resource", "outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coins",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of upstream requests.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6s
		},
		[]string{"resource"},
	)
)

func init() {
	Registry.MustRegister(cacheLookups, upstreamRequests, upstreamDuration)
}
