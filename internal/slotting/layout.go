// Package slotting keeps the epoch layout known to the node and maps timestamps to slots.
package slotting

import (
	"sort"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

// SlotFromTimestamp places ts into a known epoch. It reports false when ts
// falls outside every epoch described by data.
func SlotFromTimestamp(data model.SlottingData, systemStart model.Timestamp, epochSlots uint64, ts model.Timestamp) (model.SlotID, bool) {
	if epochSlots == 0 {
		return model.SlotID{}, false
	}
	for _, epoch := range sortedEpochs(data) {
		esd := data.Epochs[epoch]
		if esd.SlotDuration <= 0 {
			continue
		}
		start := systemStart.Add(esd.StartDiff)
		if ts < start {
			continue
		}
		slot := uint64(ts.Sub(start) / esd.SlotDuration)
		if slot < epochSlots {
			return model.SlotID{Epoch: epoch, Slot: model.LocalSlotIndex(slot)}, true
		}
	}
	return model.SlotID{}, false
}

// ApproximateSlot estimates the slot for ts when data does not cover it by
// extrapolating the layout of the last known epoch.
func ApproximateSlot(data model.SlottingData, systemStart model.Timestamp, epochSlots uint64, ts model.Timestamp) model.SlotID {
	first := model.SlotID{Epoch: data.Penultimate + 1}
	epoch, esd, ok := data.Last()
	if !ok || esd.SlotDuration <= 0 || epochSlots == 0 {
		return first
	}
	start := systemStart.Add(esd.StartDiff)
	if ts < start {
		return first
	}
	base := model.SlotID{Epoch: epoch}.Flatten(epochSlots)
	passed := uint64(ts.Sub(start) / esd.SlotDuration)
	return (base + model.FlatSlotID(passed)).Unflatten(epochSlots)
}

// SlotStart returns the moment slot begins, if its epoch is known.
func SlotStart(data model.SlottingData, systemStart model.Timestamp, slot model.SlotID) (model.Timestamp, bool) {
	esd, ok := data.Epochs[slot.Epoch]
	if !ok {
		return 0, false
	}
	return systemStart.Add(esd.StartDiff + esd.SlotDuration*time.Duration(slot.Slot)), true
}

func sortedEpochs(data model.SlottingData) []model.EpochIndex {
	epochs := make([]model.EpochIndex, 0, len(data.Epochs))
	for epoch := range data.Epochs {
		epochs = append(epochs, epoch)
	}
	sort.Slice(epochs, func(i, j int) bool { return epochs[i] < epochs[j] })
	return epochs
}
