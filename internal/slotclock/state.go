// Package slotclock answers which slot is current using a network-corrected local clock.
package slotclock

import (
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

// State is an immutable snapshot of the slot clock.
type State struct {
	LastSlot      model.SlotID
	LastMargin    time.Duration
	LastLocalTime model.Timestamp
}

// Cell holds the current State. Every mutation swaps in a whole new snapshot,
// so margin and local time are always observed together.
type Cell struct {
	v atomic.Pointer[State]
}

// NewCell creates a cell with zero margin, slot 0/0 and the given local time.
func NewCell(now model.Timestamp) *Cell {
	c := &Cell{}
	c.v.Store(&State{LastLocalTime: now})
	return c
}

// Read returns the current snapshot.
func (c *Cell) Read() State {
	return *c.v.Load()
}

// Update replaces margin and local time in one step, keeping the slot.
func (c *Cell) Update(margin time.Duration, localTime model.Timestamp) {
	for {
		old := c.v.Load()
		next := &State{LastSlot: old.LastSlot, LastMargin: margin, LastLocalTime: localTime}
		if c.v.CompareAndSwap(old, next) {
			return
		}
	}
}

// BumpSlot raises the last slot to candidate if it is later and returns the
// resulting last slot.
func (c *Cell) BumpSlot(candidate model.SlotID) model.SlotID {
	for {
		old := c.v.Load()
		slot := model.MaxSlot(old.LastSlot, candidate)
		if slot == old.LastSlot {
			return slot
		}
		next := &State{LastSlot: slot, LastMargin: old.LastMargin, LastLocalTime: old.LastLocalTime}
		if c.v.CompareAndSwap(old, next) {
			return slot
		}
	}
}
