package model

import (
	"fmt"
	"time"
)

// EpochIndex identifies an epoch.
type EpochIndex uint64

// LocalSlotIndex is the index of a slot inside its epoch.
type LocalSlotIndex uint32

// SlotID identifies a slot by epoch and position in that epoch.
type SlotID struct {
	Epoch EpochIndex
	Slot  LocalSlotIndex
}

// Compare returns -1, 0 or +1 depending on whether s precedes, equals or follows o.
func (s SlotID) Compare(o SlotID) int {
	switch {
	case s.Epoch < o.Epoch:
		return -1
	case s.Epoch > o.Epoch:
		return 1
	case s.Slot < o.Slot:
		return -1
	case s.Slot > o.Slot:
		return 1
	default:
		return 0
	}
}

// Less reports whether s precedes o.
func (s SlotID) Less(o SlotID) bool {
	return s.Compare(o) < 0
}

func (s SlotID) String() string {
	return fmt.Sprintf("%d/%d", s.Epoch, s.Slot)
}

// MaxSlot returns the later of two slots.
func MaxSlot(a, b SlotID) SlotID {
	if a.Less(b) {
		return b
	}
	return a
}

// FlatSlotID is the absolute slot number counted from the first slot of epoch 0.
type FlatSlotID uint64

// Flatten converts a slot into its absolute number for a fixed epoch length.
func (s SlotID) Flatten(epochSlots uint64) FlatSlotID {
	return FlatSlotID(uint64(s.Epoch)*epochSlots + uint64(s.Slot))
}

// Unflatten converts an absolute slot number back into a SlotID.
func (f FlatSlotID) Unflatten(epochSlots uint64) SlotID {
	if epochSlots == 0 {
		return SlotID{}
	}
	return SlotID{
		Epoch: EpochIndex(uint64(f) / epochSlots),
		Slot:  LocalSlotIndex(uint64(f) % epochSlots),
	}
}

// EpochSlottingData describes the time layout of one epoch.
type EpochSlottingData struct {
	// SlotDuration is the length of every slot in the epoch.
	SlotDuration time.Duration
	// StartDiff is the offset of the epoch start from the system start.
	StartDiff time.Duration
}

// SlottingData maps epochs to their layout. Layouts are known for every epoch
// up to and including Penultimate+1.
type SlottingData struct {
	Epochs      map[EpochIndex]EpochSlottingData
	Penultimate EpochIndex
}

// Last returns the layout of the latest known epoch (Penultimate+1).
func (d SlottingData) Last() (EpochIndex, EpochSlottingData, bool) {
	epoch := d.Penultimate + 1
	esd, ok := d.Epochs[epoch]
	return epoch, esd, ok
}

// Clone returns a deep copy so callers can read without holding locks.
func (d SlottingData) Clone() SlottingData {
	epochs := make(map[EpochIndex]EpochSlottingData, len(d.Epochs))
	for k, v := range d.Epochs {
		epochs[k] = v
	}
	return SlottingData{Epochs: epochs, Penultimate: d.Penultimate}
}
