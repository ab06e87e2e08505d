package slotclock

import (
	"context"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// SlottingSource provides the epoch layout and the timestamp to slot mapping.
	SlottingSource interface {
		CurrentSlottingData() model.SlottingData
		WaitPenultimateEpochAtLeast(ctx context.Context, epoch model.EpochIndex) error
		TimestampToSlot(ts model.Timestamp) (model.SlotID, bool)
		ApproximateSlot(data model.SlottingData, ts model.Timestamp) model.SlotID
	}
	// Metrics records slot query outcomes.
	Metrics interface {
		ObserveQuery(mode string, outcome string)
	}
)
