// Package indexer copies the node's main chain into the block store.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/chain"
	"github.com/goodnatureofminers/slotledger/internal/clock"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"go.uber.org/zap"
)

// Config controls the sync loop.
type Config struct {
	// BatchSize is the number of blocks written per insert.
	BatchSize int
	// PollInterval is the pause between syncs.
	PollInterval time.Duration
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

// Service follows the node tip and appends new blocks to the store in order.
type Service struct {
	cfg     Config
	source  Source
	store   Store
	metrics Metrics
	sleep   func(context.Context, time.Duration) error
	logger  *zap.Logger
	// blockSignal cuts the pause short when the node announces a block.
	blockSignal <-chan struct{}
}

// NewService builds a Service with dependencies.
func NewService(
	cfg Config,
	source Source,
	store Store,
	metrics Metrics,
	logger *zap.Logger,
	blockSignal <-chan struct{},
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil || store == nil {
		return nil, errors.New("indexer source and store are required")
	}
	if metrics == nil {
		return nil, errors.New("indexer metrics is required")
	}
	return &Service{
		cfg:     cfg,
		source:  source,
		store:   store,
		metrics: metrics,
		sleep:   clock.SleepWithContext,
		logger:  logger.Named("indexer"),

		blockSignal: blockSignal,
	}, nil
}

// Run syncs until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Sync(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, chain.ErrNoPath) {
				// TODO: rewind the store to the fork point instead of waiting for the node to return.
				// The rewind must delete chain_blocks and chain_transactions rows above the fork
				// height: ReplacingMergeTree only collapses rows sharing (network, height, tx_index),
				// so a shorter replacement block would keep the old block's extra transactions.
				s.logger.Error("stored tip is not on the node main chain", zap.Error(err))
			} else {
				s.logger.Warn("sync failed, backing off", zap.Error(err), zap.Duration("sleep", s.cfg.PollInterval))
			}
		}
		if err := s.wait(ctx, s.cfg.PollInterval); err != nil {
			return err
		}
	}
}

func (s *Service) wait(ctx context.Context, d time.Duration) error {
	if s.blockSignal == nil {
		return s.sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.blockSignal:
		return nil
	case <-timer.C:
		return nil
	}
}

// Sync writes every node block above the stored tip and returns how many blocks were written.
// An empty store is seeded with the genesis block first.
func (s *Service) Sync(ctx context.Context) (written int, err error) {
	defer func(started time.Time) {
		s.metrics.ObserveSync(err, written, started)
	}(time.Now())

	from, err := s.store.TipHash(ctx)
	switch {
	case errors.Is(err, chain.ErrEmpty):
		genesis, gerr := s.source.GenesisBlock(ctx)
		if gerr != nil {
			return 0, gerr
		}
		if err = s.store.InsertBlocks(ctx, []model.Block{genesis}); err != nil {
			return 0, fmt.Errorf("store genesis: %w", err)
		}
		written = 1
		from = genesis.Hash
		s.logger.Info("genesis stored", zap.Stringer("hash", genesis.Hash))
	case err != nil:
		return 0, fmt.Errorf("stored tip: %w", err)
	}

	to, err := s.source.TipHash(ctx)
	if err != nil {
		return written, fmt.Errorf("node tip: %w", err)
	}
	if from == to {
		return written, nil
	}

	batch := make([]model.Block, 0, s.cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.store.InsertBlocks(ctx, batch); err != nil {
			return fmt.Errorf("store blocks %d..%d: %w", batch[0].Difficulty, batch[len(batch)-1].Difficulty, err)
		}
		written += len(batch)
		batch = make([]model.Block, 0, s.cfg.BatchSize)
		return nil
	}

	if err = s.source.IterateBlocks(ctx, from, to, func(b model.Block) error {
		batch = append(batch, b)
		if len(batch) < s.cfg.BatchSize {
			return nil
		}
		return flush()
	}); err != nil {
		return written, err
	}
	if err = flush(); err != nil {
		return written, err
	}

	s.logger.Info("blocks indexed", zap.Int("blocks", written), zap.Stringer("tip", to))
	return written, nil
}
