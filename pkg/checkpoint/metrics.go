package checkpoint

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SavesTotal tracks checkpoint save attempts by backend and outcome.
	SavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ghfetch_checkpoint_saves_total",
			Help: "Total number of checkpoint save attempts",
		},
		[]string{"backend", "status"}, // "file"/"redis", "ok"/"error"
	)

	// LoadsTotal tracks checkpoint load attempts by backend and outcome.
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ghfetch_checkpoint_loads_total",
			Help: "Total number of checkpoint load attempts",
		},
		[]string{"backend", "status"}, // "ok"/"miss"/"error"
	)

	// SizeBytes tracks the serialized checkpoint size by backend.
	SizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ghfetch_checkpoint_size_bytes",
			Help: "Serialized size of the last saved checkpoint in bytes",
		},
		[]string{"backend"},
	)
)
