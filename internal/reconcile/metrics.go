package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	driftGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "datakit",
		Subsystem: "reconcile",
		Name:      "drift_records",
		Help:      "Divergent records found by the last reconciliation pass.",
	}, []string{"class"})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "datakit",
		Subsystem: "reconcile",
		Name:      "pass_duration_seconds",
		Help:      "Wall time of reconciliation passes.",
		Buckets:   prometheus.DefBuckets,
	})
)

func observeReport(r *Report) {
	driftGauge.WithLabelValues("missing").Set(float64(len(r.Missing)))
	driftGauge.WithLabelValues("extra").Set(float64(len(r.Extra)))
	driftGauge.WithLabelValues("mismatched").Set(float64(len(r.Mismatched)))
	passDuration.Observe(r.Elapsed.Seconds())
}
