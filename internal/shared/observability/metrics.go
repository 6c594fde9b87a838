package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	IntrospectDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "layerscope_introspect_seconds",
		Help:    "Time spent walking and summarizing one model's module graph.",
		Buckets: prometheus.DefBuckets,
	}, []string{"architecture"})

	ModelsParsedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layerscope_models_parsed_total",
		Help: "Total number of models parsed successfully.",
	})

	ModelsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layerscope_models_failed_total",
		Help: "Total number of models that produced an error report.",
	})

	ModelsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layerscope_models_skipped_total",
		Help: "Total number of models skipped because an ok report already existed.",
	})

	ModuleNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "layerscope_module_nodes",
		Help: "Module count of the most recently parsed model.",
	})

	CollapsedNodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layerscope_collapsed_nodes_total",
		Help: "Total number of repeated-block groups collapsed during compaction.",
	})

	ArtifactBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "layerscope_artifact_bytes",
		Help:    "Size of written model artifacts.",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	}, []string{"compression"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "layerscope_watcher_events_total",
		Help: "Total number of file system events received by the manifest watcher.",
	})

	CatalogDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "layerscope_catalog_seconds",
		Help:    "Wall time of a full catalog run.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})
)
