package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(intercomCallsTotal)
}

// Outcome labels for intercom_calls_total.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
)

var intercomCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "intercom_calls_total",
		Help: "Callback calls requested per intent and outcome (accepted/rejected/transport_error).",
	},
	[]string{"intent", "outcome"},
)

func IncIntercomCall(intent, outcome string) {
	intercomCallsTotal.WithLabelValues(norm(intent), norm(outcome)).Inc()
}
