package main

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/slotledger/internal/chain"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"go.uber.org/zap"
)

type historyScanner interface {
	GetHistory(ctx context.Context, addrs []model.Address, checkpoint *model.Checkpoint) (model.TxHistoryAnswer, error)
}

// watcher rescans a fixed address set incrementally, resuming from the previous answer.
type watcher struct {
	history    historyScanner
	addrs      []model.Address
	checkpoint *model.Checkpoint
	confirmed  int
	logger     *zap.Logger
}

func newWatcher(h historyScanner, addrs []string, logger *zap.Logger) *watcher {
	w := &watcher{history: h, logger: logger.Named("watcher")}
	for _, a := range addrs {
		w.addrs = append(w.addrs, model.Address(a))
	}
	return w
}

func (w *watcher) onSlot(ctx context.Context, slot model.SlotID) {
	if err := w.scan(ctx); err != nil {
		w.logger.Error("history scan failed", zap.Stringer("slot", slot), zap.Error(err))
	}
}

func (w *watcher) scan(ctx context.Context) error {
	answer, err := w.history.GetHistory(ctx, w.addrs, w.checkpoint)
	if err != nil {
		if w.checkpoint != nil && errors.Is(err, chain.ErrNoPath) {
			w.logger.Warn("checkpoint left the main chain, rescanning from genesis",
				zap.Stringer("checkpoint", w.checkpoint.Hash))
			w.checkpoint = nil
			w.confirmed = 0
			return nil
		}
		return err
	}

	var pending, confirmed int
	for _, e := range answer.History {
		if e.Difficulty == nil {
			pending++
		} else {
			confirmed++
		}
	}
	w.confirmed += confirmed
	cp := answer.Checkpoint()
	w.checkpoint = &cp

	if confirmed > 0 || pending > 0 {
		w.logger.Info("watched addresses moved",
			zap.Int("new_confirmed", confirmed),
			zap.Int("total_confirmed", w.confirmed),
			zap.Int("pending", pending),
			zap.Stringer("tip", answer.TipHash))
	}
	return nil
}
