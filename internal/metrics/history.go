package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	historyScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "history",
		Name:      "scans_total",
		Help:      "Count of history scans.",
	}, []string{"status"})
	historyScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "history",
		Name:      "scan_duration_seconds",
		Help:      "Duration of history scans.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"status"})
	historyScanEntries = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "history",
		Name:      "scan_entries",
		Help:      "Number of history entries returned per scan.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"source"})
	historySubmitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "history",
		Name:      "submit_total",
		Help:      "Count of submitted transactions.",
	}, []string{"status"})
	historySubmitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "history",
		Name:      "submit_duration_seconds",
		Help:      "Duration of transaction submission.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// History tracks history queries and submissions.
type History struct{}

// NewHistory creates a History metrics collector.
func NewHistory() *History {
	return &History{}
}

// ObserveScan records a history query.
func (History) ObserveScan(err error, chainEntries, mempoolEntries int, started time.Time) {
	s := status(err)
	historyScansTotal.WithLabelValues(s).Inc()
	historyScanDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
	if err != nil {
		return
	}
	historyScanEntries.WithLabelValues("chain").Observe(float64(chainEntries))
	historyScanEntries.WithLabelValues("mempool").Observe(float64(mempoolEntries))
}

// ObserveSubmit records a submission outcome.
func (History) ObserveSubmit(err error, started time.Time) {
	s := status(err)
	historySubmitTotal.WithLabelValues(s).Inc()
	historySubmitDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}
