package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fincycle",
			Subsystem: "api_cache",
			Name:      "lookups_total",
			Help:      "Response cache lookups by endpoint and result (hit, miss, error)",
		},
		[]string{"endpoint", "result"},
	)

	StreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fincycle",
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Connected live board clients",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(CacheLookups, StreamClients)
	})
}
