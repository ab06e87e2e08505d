package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ntpPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ntp_worker",
		Name:      "polls_total",
		Help:      "Count of NTP poll cycles.",
	}, []string{"status"})
	ntpPollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ntp_worker",
		Name:      "poll_duration_seconds",
		Help:      "Duration of NTP poll cycles.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	ntpResponders = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ntp_worker",
		Name:      "responders",
		Help:      "Number of servers that answered the last poll.",
	})
	ntpOffsetSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ntp_worker",
		Name:      "offset_seconds",
		Help:      "Selected clock offset of the last successful poll.",
	})
)

// NTPWorker tracks time server polling.
type NTPWorker struct{}

// NewNTPWorker creates an NTPWorker metrics collector.
func NewNTPWorker() *NTPWorker {
	return &NTPWorker{}
}

// ObservePoll records a poll cycle. The offset gauge only moves on success.
func (NTPWorker) ObservePoll(err error, responders int, offset time.Duration, started time.Time) {
	s := status(err)
	ntpPollsTotal.WithLabelValues(s).Inc()
	ntpPollDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
	ntpResponders.Set(float64(responders))
	if err == nil {
		ntpOffsetSeconds.Set(offset.Seconds())
	}
}
