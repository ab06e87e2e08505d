package main

import (
	"context"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/clock"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"github.com/goodnatureofminers/slotledger/internal/slotclock"
	"github.com/goodnatureofminers/slotledger/internal/slotting"
	"go.uber.org/zap"
)

const minTick = 10 * time.Millisecond

// slotTicker runs hooks once per new slot, waking at slot boundaries.
type slotTicker struct {
	clock    *slotclock.SlotClock
	schedule *slotting.Store
	maxSleep time.Duration
	onSlot   []func(context.Context, model.SlotID)
	sleep    func(context.Context, time.Duration) error
	logger   *zap.Logger

	last    model.SlotID
	started bool
}

func newSlotTicker(
	sc *slotclock.SlotClock,
	schedule *slotting.Store,
	slotDuration time.Duration,
	onSlot []func(context.Context, model.SlotID),
	logger *zap.Logger,
) *slotTicker {
	return &slotTicker{
		clock:    sc,
		schedule: schedule,
		maxSleep: max(slotDuration, minTick),
		onSlot:   onSlot,
		sleep:    clock.SleepWithContext,
		logger:   logger.Named("slots"),
	}
}

// Run blocks until ctx is canceled.
func (t *slotTicker) Run(ctx context.Context) error {
	for {
		// The blocking query cannot place a time before slot 0/0.
		now := t.clock.CorrectedNow()
		if start, ok := t.schedule.SlotStart(model.SlotID{}); ok && now < start {
			t.logger.Debug("waiting for system start", zap.Stringer("start", start))
			if err := t.sleep(ctx, t.bound(start.Sub(now))); err != nil {
				return err
			}
			continue
		}

		if n := t.schedule.ExtendFlat(now); n > 0 {
			t.logger.Debug("epoch schedule extended", zap.Int("epochs", n))
		}
		slot, err := t.clock.CurrentSlotBlocking(ctx)
		if err != nil {
			return err
		}
		if !t.started || t.last.Less(slot) {
			t.started = true
			t.last = slot
			t.logger.Info("slot started", zap.Stringer("slot", slot))
			for _, fn := range t.onSlot {
				fn(ctx, slot)
			}
		}
		if err := t.sleep(ctx, t.untilNext(slot)); err != nil {
			return err
		}
	}
}

func (t *slotTicker) untilNext(slot model.SlotID) time.Duration {
	start, ok := t.schedule.SlotStart(t.schedule.NextSlot(slot))
	if !ok {
		return t.maxSleep
	}
	return t.bound(start.Sub(t.clock.CorrectedNow()))
}

func (t *slotTicker) bound(d time.Duration) time.Duration {
	return min(max(d, minTick), t.maxSleep)
}

// scheduleExtender keeps the flat epoch schedule ahead of the corrected clock
// so that blocking slot queries parked on an outdated schedule are released.
type scheduleExtender struct {
	clock    *slotclock.SlotClock
	schedule *slotting.Store
	interval time.Duration
	sleep    func(context.Context, time.Duration) error
	logger   *zap.Logger
}

func newScheduleExtender(sc *slotclock.SlotClock, schedule *slotting.Store, slotDuration time.Duration, logger *zap.Logger) *scheduleExtender {
	return &scheduleExtender{
		clock:    sc,
		schedule: schedule,
		interval: max(slotDuration, minTick),
		sleep:    clock.SleepWithContext,
		logger:   logger.Named("schedule"),
	}
}

// Run blocks until ctx is canceled.
func (e *scheduleExtender) Run(ctx context.Context) error {
	for {
		if n := e.schedule.ExtendFlat(e.clock.CorrectedNow()); n > 0 {
			e.logger.Debug("epoch schedule extended", zap.Int("epochs", n))
		}
		if err := e.sleep(ctx, e.interval); err != nil {
			return err
		}
	}
}
