package metrics

import "github.com/prometheus/client_golang/prometheus"

// Provider request metrics
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Requests to the football data provider by HTTP status, 0 when no response arrived",
	}, []string{"status"})

	ProviderRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of provider requests including retries in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of provider circuit breaker trips",
	})
)

// RecordProviderRequest records a provider request and its latency.
func RecordProviderRequest(status int, durationSeconds float64) {
	ProviderRequestsTotal.WithLabelValues(statusLabel(status)).Inc()
	ProviderRequestDuration.Observe(durationSeconds)
}

// RecordCircuitBreakerTrip records the provider circuit breaker opening.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
