package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "prodex"

// Retrieval, ingestion and snapshot Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_requests_total",
			Help:      "Total number of retrieval requests",
		},
		[]string{"kind"}, // retrieve, category, routine, search
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"kind"},
	)

	RetrievalCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_candidates",
			Help:      "Number of similarity candidates re-ranked per retrieval",
			Buckets:   []float64{0, 1, 3, 5, 10, 30, 50, 100, 300},
		},
	)

	IngestionRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestion_runs_total",
			Help:      "Total ingestion runs",
		},
		[]string{"trigger", "status"},
	)

	IngestedDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingested_documents",
			Help:      "Documents in the store after the last ingestion run",
		},
	)

	SnapshotWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_writes_total",
			Help:      "Snapshot persistence attempts",
		},
		[]string{"result"}, // "ok" / "error"
	)

	SnapshotLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Snapshot load outcomes",
		},
		[]string{"result"}, // "ok" / "empty" / "discarded" / "error"
	)
)

var registerOnce sync.Once

// RegisterEngineMetrics registers the engine metrics with the default registry.
// Safe to call more than once.
func RegisterEngineMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RetrievalRequestsTotal,
			RetrievalDuration,
			RetrievalCandidates,
			IngestionRunsTotal,
			IngestedDocuments,
			SnapshotWritesTotal,
			SnapshotLoadsTotal,
		)
	})
}
