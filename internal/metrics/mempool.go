package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mempoolAdmitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mempool",
		Name:      "admit_total",
		Help:      "Count of admission attempts.",
	}, []string{"status"})
	mempoolAdmitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mempool",
		Name:      "admit_duration_seconds",
		Help:      "Duration of admission checks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	mempoolPending = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "mempool",
		Name:      "pending",
		Help:      "Number of pending transactions.",
	})
)

// Mempool tracks the in-memory pool.
type Mempool struct{}

// NewMempool creates a Mempool metrics collector.
func NewMempool() *Mempool {
	return &Mempool{}
}

// ObserveAdmit records an admission attempt.
func (Mempool) ObserveAdmit(err error, started time.Time) {
	s := status(err)
	mempoolAdmitTotal.WithLabelValues(s).Inc()
	mempoolAdmitDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}

// SetPending records the current pool size.
func (Mempool) SetPending(n int) {
	mempoolPending.Set(float64(n))
}
