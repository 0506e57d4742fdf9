package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramCommandsReceivedTotal,
		telegramCallbacksTotal,
	)
}

var (
	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Counts incoming commands from users.",
		},
		[]string{"command"},
	)

	telegramCallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_callbacks_total",
			Help: "Counts inline button presses by payload (unknown payloads collapse into one label).",
		},
		[]string{"data"},
	)
)

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

// IncTelegramCallback counts a button press. Only known payloads get their
// own label so user-controlled data cannot grow the series count.
func IncTelegramCallback(data string, known bool) {
	if !known {
		data = "unknown"
	}
	telegramCallbacksTotal.WithLabelValues(norm(data)).Inc()
}
