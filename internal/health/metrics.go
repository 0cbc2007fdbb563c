package health

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	alertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datakit",
		Subsystem: "health",
		Name:      "alerts_total",
		Help:      "Alerts raised by category and severity.",
	}, []string{"category", "severity"})

	checkLatency = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "datakit",
		Subsystem: "health",
		Name:      "check_latency_seconds",
		Help:      "Latency of the last health check per store.",
	}, []string{"store"})

	overallState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "datakit",
		Subsystem: "health",
		Name:      "overall_state",
		Help:      "Overall health: 0 healthy, 1 warning, 2 degraded, 3 critical.",
	})
)

func observeAlert(alert Alert) {
	alertsTotal.WithLabelValues(string(alert.Category), string(alert.Severity)).Inc()
}

func observeReport(r *Report) {
	checkLatency.WithLabelValues("primary").Set(r.Primary.Latency.Seconds())
	checkLatency.WithLabelValues("index").Set(r.Index.Latency.Seconds())

	switch r.Overall {
	case OverallHealthy:
		overallState.Set(0)
	case OverallWarning:
		overallState.Set(1)
	case OverallDegraded:
		overallState.Set(2)
	case OverallCritical:
		overallState.Set(3)
	}
}
