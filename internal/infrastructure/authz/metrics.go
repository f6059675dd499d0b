package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cabinet",
		Subsystem: "authz",
		Name:      "decisions_total",
		Help:      "Permission checks broken down by permission and result.",
	}, []string{"permission", "result"})

	decisionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cabinet",
		Subsystem: "authz",
		Name:      "latency_seconds",
		Help:      "Latency distribution of permission checks.",
		Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"result"})
)

func recordDecision(permission, result string, latency time.Duration) {
	decisions.WithLabelValues(permission, result).Inc()
	decisionLatency.WithLabelValues(result).Observe(latency.Seconds())
}
