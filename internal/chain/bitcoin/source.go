package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/slotledger/internal/chain"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"github.com/goodnatureofminers/slotledger/pkg/workerpool"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// SourceConfig tunes block fetching.
type SourceConfig struct {
	// Prefetch is the number of blocks fetched concurrently ahead of delivery.
	Prefetch int
	// RPS caps block fetches per second. Zero means unlimited.
	RPS int
}

// Validate ensures the configuration is usable.
func (c SourceConfig) Validate() error {
	if c.Prefetch <= 0 {
		return errors.New("prefetch must be positive")
	}
	if c.RPS < 0 {
		return errors.New("rps must not be negative")
	}
	return nil
}

// Source walks the node's main chain and serves the genesis baseline.
type Source struct {
	cfg     SourceConfig
	rpc     RPCClient
	decoder *ScriptDecoder
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

// NewSource constructs a Source.
func NewSource(cfg SourceConfig, rpc RPCClient, decoder *ScriptDecoder, logger *zap.Logger) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}
	return &Source{
		cfg:     cfg,
		rpc:     rpc,
		decoder: decoder,
		limiter: limiter,
		logger:  logger.Named("bitcoin_source"),
	}, nil
}

// TipHash returns the best block hash.
func (s *Source) TipHash(ctx context.Context) (model.HeaderHash, error) {
	if err := ctx.Err(); err != nil {
		return model.HeaderHash{}, err
	}
	hash, err := s.rpc.GetBestBlockHash()
	if err != nil {
		return model.HeaderHash{}, fmt.Errorf("get best block hash: %w", err)
	}
	return *hash, nil
}

// IterateBlocks calls fn for every main-chain block after from up to and
// including to, oldest first. A reorganization below to during the walk
// surfaces as chain.ErrNoPath.
func (s *Source) IterateBlocks(ctx context.Context, from, to model.HeaderHash, fn func(model.Block) error) error {
	fromHeight, err := s.mainChainHeight(from)
	if err != nil {
		return err
	}
	toHeight, err := s.mainChainHeight(to)
	if err != nil {
		return err
	}
	if fromHeight > toHeight {
		return fmt.Errorf("%w: start %s at %d is above %s at %d", chain.ErrNoPath, from, fromHeight, to, toHeight)
	}

	prev := from
	for start := fromHeight + 1; start <= toHeight; start += int64(s.cfg.Prefetch) {
		end := min(start+int64(s.cfg.Prefetch)-1, toHeight)
		heights := make([]int64, 0, end-start+1)
		for h := start; h <= end; h++ {
			heights = append(heights, h)
		}

		blocks, err := workerpool.Map(ctx, s.cfg.Prefetch, heights, s.blockAt)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			if b.PrevHash != prev {
				return fmt.Errorf("%w: block %s does not follow %s", chain.ErrNoPath, b.Hash, prev)
			}
			if err := fn(b); err != nil {
				return err
			}
			prev = b.Hash
		}
		s.logger.Debug("blocks delivered", zap.Int64("from", start), zap.Int64("to", end))
	}

	if prev != to {
		return fmt.Errorf("%w: reached %s instead of %s", chain.ErrNoPath, prev, to)
	}
	return nil
}

func (s *Source) mainChainHeight(hash model.HeaderHash) (int64, error) {
	header, err := s.rpc.GetBlockHeaderVerbose(&hash)
	if err != nil {
		return 0, fmt.Errorf("%w: header %s: %w", chain.ErrNoPath, hash, errors.Join(chain.ErrUnknownBlock, err))
	}
	if header.Confirmations < 0 {
		return 0, fmt.Errorf("%w: block %s is not on the main chain", chain.ErrNoPath, hash)
	}
	return int64(header.Height), nil
}

func (s *Source) blockAt(ctx context.Context, height int64) (model.Block, error) {
	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	s.limiter.Take()

	hash, err := s.rpc.GetBlockHash(height)
	if err != nil {
		return model.Block{}, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	return s.block(hash)
}

func (s *Source) block(hash *chainhash.Hash) (model.Block, error) {
	src, err := s.rpc.GetBlockVerboseTx(hash)
	if err != nil {
		return model.Block{}, fmt.Errorf("get block %s: %w", hash, err)
	}
	return s.decoder.ConvertBlock(*src)
}

// GenesisHash returns the hash of the block at height zero.
func (s *Source) GenesisHash(_ context.Context) (model.HeaderHash, error) {
	hash, err := s.rpc.GetBlockHash(0)
	if err != nil {
		return model.HeaderHash{}, fmt.Errorf("get genesis hash: %w", err)
	}
	return *hash, nil
}

// GenesisBlock returns the block at height zero.
func (s *Source) GenesisBlock(ctx context.Context) (model.Block, error) {
	genesis, err := s.blockAt(ctx, 0)
	if err != nil {
		return model.Block{}, fmt.Errorf("get genesis block: %w", err)
	}
	return genesis, nil
}

// GenesisUtxo returns the outputs created by the genesis block.
func (s *Source) GenesisUtxo(ctx context.Context) (model.Utxo, error) {
	genesis, err := s.GenesisBlock(ctx)
	if err != nil {
		return nil, err
	}
	utxo := make(model.Utxo)
	for _, tx := range genesis.Txs {
		utxo.Apply(tx)
	}
	return utxo, nil
}
