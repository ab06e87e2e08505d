package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
	"go.uber.org/zap"
)

// ErrAdmission wraps a mempool rejection returned from Submit.
var ErrAdmission = errors.New("transaction not admitted")

// Service answers address history queries and forwards new transactions to the mempool.
type Service struct {
	blocks  BlockStore
	genesis GenesisProvider
	mempool Mempool
	metrics Metrics
	logger  *zap.Logger
}

// NewService constructs a history Service.
func NewService(blocks BlockStore, genesis GenesisProvider, mempool Mempool, metrics Metrics, logger *zap.Logger) (*Service, error) {
	if blocks == nil {
		return nil, errors.New("block store is required")
	}
	if genesis == nil {
		return nil, errors.New("genesis provider is required")
	}
	if mempool == nil {
		return nil, errors.New("mempool is required")
	}
	if metrics == nil {
		return nil, errors.New("history metrics is required")
	}
	return &Service{
		blocks:  blocks,
		genesis: genesis,
		mempool: mempool,
		metrics: metrics,
		logger:  logger.Named("history"),
	}, nil
}

// GetHistory scans the chain from checkpoint (or genesis when nil) up to the
// current tip and then the mempool, returning entries newest first. The
// returned TipHash and CachedUtxo form a checkpoint for the next call.
func (s *Service) GetHistory(ctx context.Context, addrs []model.Address, checkpoint *model.Checkpoint) (answer model.TxHistoryAnswer, err error) {
	var chainEntries, poolEntries int
	defer func(started time.Time) {
		s.metrics.ObserveScan(err, chainEntries, poolEntries, started)
	}(time.Now())

	set := NewAddressSet(addrs...)

	tip, err := s.blocks.TipHash(ctx)
	if err != nil {
		return model.TxHistoryAnswer{}, fmt.Errorf("get tip: %w", err)
	}

	start, utxo, err := s.startPoint(ctx, checkpoint)
	if err != nil {
		return model.TxHistoryAnswer{}, err
	}

	acc := NewAccumulator(set, utxo)
	if start != tip {
		if err := s.blocks.IterateBlocks(ctx, start, tip, acc.Apply); err != nil {
			return model.TxHistoryAnswer{}, fmt.Errorf("scan %s..%s: %w", start, tip, err)
		}
	}
	chain := acc.History()
	tipUtxo := acc.Utxo()

	pending, err := s.mempool.PendingTxs(ctx)
	if err != nil {
		return model.TxHistoryAnswer{}, fmt.Errorf("list mempool: %w", err)
	}
	pool, _, err := FilterTxs(set, pending, tipUtxo.Clone())
	if err != nil {
		return model.TxHistoryAnswer{}, fmt.Errorf("scan mempool: %w", err)
	}

	chainEntries, poolEntries = len(chain), len(pool)
	s.logger.Debug("history scanned",
		zap.Stringer("start", start),
		zap.Stringer("tip", tip),
		zap.Int("blocks", acc.Blocks()),
		zap.Int("chain_entries", chainEntries),
		zap.Int("mempool_entries", poolEntries),
	)

	return model.TxHistoryAnswer{
		TipHash:    tip,
		CachedUtxo: tipUtxo,
		History:    append(pool, chain...),
	}, nil
}

func (s *Service) startPoint(ctx context.Context, checkpoint *model.Checkpoint) (model.HeaderHash, model.Utxo, error) {
	if checkpoint != nil {
		return checkpoint.Hash, checkpoint.Utxo.Clone(), nil
	}
	hash, err := s.genesis.GenesisHash(ctx)
	if err != nil {
		return model.HeaderHash{}, nil, fmt.Errorf("get genesis hash: %w", err)
	}
	utxo, err := s.genesis.GenesisUtxo(ctx)
	if err != nil {
		return model.HeaderHash{}, nil, fmt.Errorf("get genesis utxo: %w", err)
	}
	return hash, utxo.Clone(), nil
}

// Submit hands tx to the mempool. Rejections are logged and returned wrapped in ErrAdmission.
func (s *Service) Submit(ctx context.Context, tx model.TxAux) (err error) {
	defer func(started time.Time) {
		s.metrics.ObserveSubmit(err, started)
	}(time.Now())

	if err := s.mempool.Admit(ctx, tx); err != nil {
		s.logger.Warn("transaction rejected", zap.Stringer("tx", tx.Tx.ID), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrAdmission, tx.Tx.ID, err)
	}
	s.logger.Info("transaction submitted", zap.Stringer("tx", tx.Tx.ID))
	return nil
}
