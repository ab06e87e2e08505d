package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var slotClockQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "slot_clock",
	Name:      "queries_total",
	Help:      "Count of slot queries by mode and outcome.",
}, []string{"mode", "outcome"})

// SlotClock tracks slot resolution outcomes.
type SlotClock struct{}

// NewSlotClock creates a SlotClock metrics collector.
func NewSlotClock() *SlotClock {
	return &SlotClock{}
}

// ObserveQuery records one slot query.
func (SlotClock) ObserveQuery(mode, outcome string) {
	slotClockQueriesTotal.WithLabelValues(mode, outcome).Inc()
}
