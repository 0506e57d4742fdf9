package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

// register is called by init() in each metrics file to enqueue collectors.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister registers every enqueued collector with the default
// registry exactly once.
func MustRegister() {
	once.Do(func() { MustRegisterWith(prometheus.DefaultRegisterer) })
}

// MustRegisterWith registers every enqueued collector with reg. It panics
// on duplicates, so call it once per registry.
func MustRegisterWith(reg prometheus.Registerer) {
	if len(collectors) > 0 {
		reg.MustRegister(collectors...)
	}
}
