package slotclock

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

// CheckTrust decides whether correctedNow is consistent with the last
// measurement taken at lastLocalTime. The window is inclusive on both ends.
func CheckTrust(lastLocalTime, correctedNow model.Timestamp, pollDelay, maxError time.Duration) (string, bool) {
	switch {
	case correctedNow > lastLocalTime.Add(pollDelay+maxError):
		return fmt.Sprintf("current time %s is too far ahead of last measurement %s", correctedNow, lastLocalTime), false
	case correctedNow < lastLocalTime.Add(-maxError):
		return fmt.Sprintf("current time %s is too far behind last measurement %s", correctedNow, lastLocalTime), false
	default:
		return "", true
	}
}

// Outcome classifies a slot resolution.
type Outcome int

const (
	// CurrentSlot means Result.Slot holds the current slot.
	CurrentSlot Outcome = iota
	// OutdatedSlottingData means the known epochs do not cover the current time.
	OutdatedSlottingData
	// CantTrust means the local clock drifted outside the trust window.
	CantTrust
)

func (o Outcome) String() string {
	switch o {
	case CurrentSlot:
		return "current_slot"
	case OutdatedSlottingData:
		return "outdated_slotting_data"
	case CantTrust:
		return "cant_trust"
	default:
		return "unknown"
	}
}

// Result is the outcome of resolving the current slot.
type Result struct {
	Outcome Outcome
	// Slot is set for CurrentSlot.
	Slot model.SlotID
	// Penultimate is set for OutdatedSlottingData.
	Penultimate model.EpochIndex
	// Reason is set for CantTrust.
	Reason string
}
