package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(zadarmaRequestsTotal, zadarmaRequestDuration)
}

var (
	zadarmaRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zadarma_requests_total",
			Help: "Zadarma API requests by method path, verb and HTTP code (or \"error\").",
		},
		[]string{"method", "verb", "code"},
	)

	zadarmaRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zadarma_request_duration_seconds",
			Help:    "Zadarma API round-trip latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
		[]string{"method"},
	)
)

func ObserveZadarmaRequest(method, verb, code string, elapsed time.Duration) {
	zadarmaRequestsTotal.WithLabelValues(method, verb, norm(code)).Inc()
	zadarmaRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
