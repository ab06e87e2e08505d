package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexerSyncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "syncs_total",
		Help:      "Count of indexer sync passes.",
	}, []string{"network", "status"})
	indexerSyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "sync_duration_seconds",
		Help:      "Duration of indexer sync passes.",
		Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
	}, []string{"network", "status"})
	indexerBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "indexer",
		Name:      "blocks_total",
		Help:      "Count of blocks written to the block store.",
	}, []string{"network"})
)

// Indexer tracks block store sync passes.
type Indexer struct {
	network string
}

// NewIndexer creates an Indexer metrics collector.
func NewIndexer(network string) *Indexer {
	return &Indexer{network: orUnknown(network)}
}

// ObserveSync records a sync pass and the blocks it wrote, including those written before a failure.
func (m *Indexer) ObserveSync(err error, blocks int, started time.Time) {
	s := status(err)
	indexerSyncsTotal.WithLabelValues(m.network, s).Inc()
	indexerSyncDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	if blocks > 0 {
		indexerBlocksTotal.WithLabelValues(m.network).Add(float64(blocks))
	}
}
