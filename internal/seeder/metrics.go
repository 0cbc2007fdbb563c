package seeder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var writeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "datakit",
	Subsystem: "seeder",
	Name:      "writes_total",
	Help:      "Dual-store write attempts by kind and outcome.",
}, []string{"kind", "outcome"})

func observeWrite(res WriteResult) {
	writeOutcomes.WithLabelValues(string(res.Kind), string(res.Outcome)).Inc()
}
