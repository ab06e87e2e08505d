package slotting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
	"go.uber.org/zap"
)

// ErrUnknownEpoch is returned when slotting data lacks the required epochs.
var ErrUnknownEpoch = errors.New("slotting data does not describe epoch")

// Config fixes the parts of the layout that never change.
type Config struct {
	// SystemStart is the moment slot 0 of epoch 0 begins.
	SystemStart model.Timestamp
	// EpochSlots is the number of slots in every epoch.
	EpochSlots uint64
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.EpochSlots == 0 {
		return errors.New("epoch slots must be greater than zero")
	}
	return nil
}

// GenesisData builds slotting data for epochs 0 and 1 sharing slotDuration.
func GenesisData(epochSlots uint64, slotDuration time.Duration) model.SlottingData {
	epochLen := slotDuration * time.Duration(epochSlots)
	return model.SlottingData{
		Epochs: map[model.EpochIndex]model.EpochSlottingData{
			0: {SlotDuration: slotDuration, StartDiff: 0},
			1: {SlotDuration: slotDuration, StartDiff: epochLen},
		},
		Penultimate: 0,
	}
}

// Store holds the slotting data confirmed so far and notifies waiters when it advances.
type Store struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.RWMutex
	data    model.SlottingData
	advance chan struct{}
}

// NewStore constructs a Store seeded with initial data.
func NewStore(cfg Config, initial model.SlottingData, logger *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := initial.Epochs[initial.Penultimate]; !ok {
		return nil, fmt.Errorf("%w %d (penultimate)", ErrUnknownEpoch, initial.Penultimate)
	}
	if _, _, ok := initial.Last(); !ok {
		return nil, fmt.Errorf("%w %d (last)", ErrUnknownEpoch, initial.Penultimate+1)
	}
	return &Store{
		cfg:     cfg,
		logger:  logger,
		data:    initial.Clone(),
		advance: make(chan struct{}),
	}, nil
}

// CurrentSlottingData returns a snapshot of the known layout.
func (s *Store) CurrentSlottingData() model.SlottingData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Confirm marks the next epoch as confirmed and records the layout of the
// epoch after it. Waiters blocked on the new penultimate epoch are released.
func (s *Store) Confirm(next model.EpochSlottingData) model.EpochIndex {
	s.mu.Lock()
	s.data.Penultimate++
	s.data.Epochs[s.data.Penultimate+1] = next
	penultimate := s.data.Penultimate
	close(s.advance)
	s.advance = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("slotting data advanced", zap.Uint64("penultimate_epoch", uint64(penultimate)))
	return penultimate
}

// WaitPenultimateEpochAtLeast blocks until the penultimate epoch reaches epoch.
func (s *Store) WaitPenultimateEpochAtLeast(ctx context.Context, epoch model.EpochIndex) error {
	for {
		s.mu.RLock()
		reached := s.data.Penultimate >= epoch
		advance := s.advance
		s.mu.RUnlock()
		if reached {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-advance:
		}
	}
}

// TimestampToSlot maps ts onto the current layout.
func (s *Store) TimestampToSlot(ts model.Timestamp) (model.SlotID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SlotFromTimestamp(s.data, s.cfg.SystemStart, s.cfg.EpochSlots, ts)
}

// ApproximateSlot estimates the slot for ts from data.
func (s *Store) ApproximateSlot(data model.SlottingData, ts model.Timestamp) model.SlotID {
	return ApproximateSlot(data, s.cfg.SystemStart, s.cfg.EpochSlots, ts)
}

// SlotStart returns when slot begins under the current layout.
func (s *Store) SlotStart(slot model.SlotID) (model.Timestamp, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SlotStart(s.data, s.cfg.SystemStart, slot)
}

// NextSlot returns the slot that follows slot.
func (s *Store) NextSlot(slot model.SlotID) model.SlotID {
	return (slot.Flatten(s.cfg.EpochSlots) + 1).Unflatten(s.cfg.EpochSlots)
}

// ExtendFlat confirms epochs that reuse the latest known slot duration until
// the latest known epoch starts after ts. It returns the number of epochs confirmed.
// Nodes without an on-chain layout source use it to keep the schedule ahead of the clock.
func (s *Store) ExtendFlat(ts model.Timestamp) int {
	confirmed := 0
	for {
		data := s.CurrentSlottingData()
		_, last, ok := data.Last()
		if !ok || last.SlotDuration <= 0 {
			return confirmed
		}
		if ts < s.cfg.SystemStart.Add(last.StartDiff) {
			return confirmed
		}
		epochLen := last.SlotDuration * time.Duration(s.cfg.EpochSlots)
		s.Confirm(model.EpochSlottingData{SlotDuration: last.SlotDuration, StartDiff: last.StartDiff + epochLen})
		confirmed++
	}
}
