// Package metrics exposes Prometheus instrumentation for the generator
// and the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uhi_synth_datasets_generated_total",
			Help: "Datasets generated, by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)

	GenerateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "uhi_synth_generate_duration_seconds",
			Help:    "Wall time of one synthesis pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	CellsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uhi_synth_cells_generated_total",
			Help: "Total grid cells synthesized",
		},
	)
)
