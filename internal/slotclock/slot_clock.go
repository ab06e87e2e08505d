package slotclock

import (
	"context"
	"errors"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/clock"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"go.uber.org/zap"
)

const (
	modeStrict     = "strict"
	modeInaccurate = "inaccurate"
	modeBlocking   = "blocking"
)

// Config bounds how far the corrected clock may move between measurements.
type Config struct {
	// PollDelay is the interval between NTP measurements.
	PollDelay time.Duration
	// MaxError is the tolerated error of a measurement.
	MaxError time.Duration
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.PollDelay <= 0 {
		return errors.New("poll delay must be positive")
	}
	if c.MaxError < 0 {
		return errors.New("max error must not be negative")
	}
	return nil
}

// SlotClock resolves the current slot from the shared Cell.
type SlotClock struct {
	cfg     Config
	cell    *Cell
	source  SlottingSource
	clock   clock.Clock
	metrics Metrics
	logger  *zap.Logger
}

// NewSlotClock builds a SlotClock over cell.
func NewSlotClock(cfg Config, cell *Cell, source SlottingSource, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*SlotClock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errors.New("slot clock metrics is required")
	}
	return &SlotClock{
		cfg:     cfg,
		cell:    cell,
		source:  source,
		clock:   clk,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// CorrectedNow returns the local time adjusted by the last known margin.
func (c *SlotClock) CorrectedNow() model.Timestamp {
	return c.clock.Now().Add(c.cell.Read().LastMargin)
}

// Resolve computes the current slot without blocking. A resolved slot is
// never earlier than any slot previously returned.
func (c *SlotClock) Resolve() Result {
	state := c.cell.Read()
	now := c.clock.Now().Add(state.LastMargin)

	if reason, ok := CheckTrust(state.LastLocalTime, now, c.cfg.PollDelay, c.cfg.MaxError); !ok {
		return Result{Outcome: CantTrust, Reason: reason}
	}

	data := c.source.CurrentSlottingData()
	mapped, ok := c.source.TimestampToSlot(now)
	if !ok {
		return Result{Outcome: OutdatedSlottingData, Penultimate: data.Penultimate}
	}
	return Result{Outcome: CurrentSlot, Slot: c.cell.BumpSlot(mapped)}
}

// CurrentSlot returns the current slot, or false when it cannot be determined now.
func (c *SlotClock) CurrentSlot() (model.SlotID, bool) {
	res := c.Resolve()
	c.metrics.ObserveQuery(modeStrict, res.Outcome.String())

	switch res.Outcome {
	case CurrentSlot:
		return res.Slot, true
	case OutdatedSlottingData:
		c.logger.Warn("slotting data is outdated, current slot unknown",
			zap.Uint64("penultimate_epoch", uint64(res.Penultimate)))
	default:
		c.logger.Warn("can't trust local time, current slot unknown", zap.String("reason", res.Reason))
	}
	return model.SlotID{}, false
}

// CurrentSlotInaccurate always answers, falling back to the last recorded slot
// when the clock is distrusted and to an extrapolation when slotting data is outdated.
func (c *SlotClock) CurrentSlotInaccurate() model.SlotID {
	res := c.Resolve()
	c.metrics.ObserveQuery(modeInaccurate, res.Outcome.String())

	switch res.Outcome {
	case CurrentSlot:
		return res.Slot
	case CantTrust:
		c.logger.Debug("can't trust local time, using last slot", zap.String("reason", res.Reason))
		return c.cell.Read().LastSlot
	default:
		data := c.source.CurrentSlottingData()
		return c.source.ApproximateSlot(data, c.CorrectedNow())
	}
}

// CurrentSlotBlocking waits until the current slot can be determined reliably.
func (c *SlotClock) CurrentSlotBlocking(ctx context.Context) (model.SlotID, error) {
	for {
		if err := ctx.Err(); err != nil {
			return model.SlotID{}, err
		}

		res := c.Resolve()
		c.metrics.ObserveQuery(modeBlocking, res.Outcome.String())

		switch res.Outcome {
		case CurrentSlot:
			return res.Slot, nil
		case CantTrust:
			c.logger.Warn("can't trust local time, retrying",
				zap.String("reason", res.Reason), zap.Duration("sleep", c.cfg.PollDelay))
			if err := c.clock.Sleep(ctx, c.cfg.PollDelay); err != nil {
				return model.SlotID{}, err
			}
		case OutdatedSlottingData:
			c.logger.Warn("slotting data is outdated, waiting for next epoch",
				zap.Uint64("penultimate_epoch", uint64(res.Penultimate)))
			if err := c.source.WaitPenultimateEpochAtLeast(ctx, res.Penultimate+1); err != nil {
				return model.SlotID{}, err
			}
		}
	}
}
