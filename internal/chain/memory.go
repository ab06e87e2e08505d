package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

// MemoryStore is an in-memory main chain with its genesis baseline.
type MemoryStore struct {
	mu          sync.RWMutex
	blocks      []model.Block
	heights     map[model.HeaderHash]int
	genesisUtxo model.Utxo
	tipUtxo     model.Utxo
}

// NewMemoryStore creates a chain holding only genesis.
func NewMemoryStore(genesis model.Block, genesisUtxo model.Utxo) *MemoryStore {
	genesis.Difficulty = 0
	return &MemoryStore{
		blocks:      []model.Block{genesis},
		heights:     map[model.HeaderHash]int{genesis.Hash: 0},
		genesisUtxo: genesisUtxo.Clone(),
		tipUtxo:     genesisUtxo.Clone(),
	}
}

// Append adds block on top of the current tip and assigns its difficulty.
func (s *MemoryStore) Append(block model.Block) (model.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tip := s.blocks[len(s.blocks)-1]
	if block.PrevHash != tip.Hash {
		return model.Block{}, fmt.Errorf("block %s does not extend tip %s", block.Hash, tip.Hash)
	}
	if _, ok := s.heights[block.Hash]; ok {
		return model.Block{}, fmt.Errorf("block %s already stored", block.Hash)
	}
	block.Difficulty = tip.Difficulty + 1
	s.heights[block.Hash] = len(s.blocks)
	s.blocks = append(s.blocks, block)
	for _, tx := range block.Txs {
		s.tipUtxo.Apply(tx)
	}
	return block, nil
}

// TipUtxo returns a copy of the UTXO after the newest block.
func (s *MemoryStore) TipUtxo(_ context.Context) (model.Utxo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tipUtxo.Clone(), nil
}

// TipHash returns the hash of the newest block.
func (s *MemoryStore) TipHash(_ context.Context) (model.HeaderHash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[len(s.blocks)-1].Hash, nil
}

// IterateBlocks calls fn for every block after from up to and including to, oldest first.
func (s *MemoryStore) IterateBlocks(ctx context.Context, from, to model.HeaderHash, fn func(model.Block) error) error {
	s.mu.RLock()
	fromHeight, okFrom := s.heights[from]
	toHeight, okTo := s.heights[to]
	var run []model.Block
	if okFrom && okTo && fromHeight <= toHeight {
		run = append(run, s.blocks[fromHeight+1:toHeight+1]...)
	}
	s.mu.RUnlock()

	switch {
	case !okFrom:
		return fmt.Errorf("%w: start %s: %w", ErrNoPath, from, ErrUnknownBlock)
	case !okTo:
		return fmt.Errorf("%w: tip %s: %w", ErrNoPath, to, ErrUnknownBlock)
	case fromHeight > toHeight:
		return fmt.Errorf("%w: start %s is above %s", ErrNoPath, from, to)
	}

	for _, b := range run {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

// GenesisHash returns the hash of the bottom block.
func (s *MemoryStore) GenesisHash(_ context.Context) (model.HeaderHash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[0].Hash, nil
}

// GenesisUtxo returns a copy of the genesis UTXO.
func (s *MemoryStore) GenesisUtxo(_ context.Context) (model.Utxo, error) {
	return s.genesisUtxo.Clone(), nil
}
