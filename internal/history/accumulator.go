package history

import (
	"fmt"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

// BlockHistory filters the transactions of one block and stamps the entries
// with the block difficulty.
func BlockHistory(addrs AddressSet, block model.Block, utxo model.Utxo) ([]model.TxHistoryEntry, model.Utxo, error) {
	entries, utxo, err := FilterTxs(addrs, block.Txs, utxo)
	if err != nil {
		return nil, nil, fmt.Errorf("block %s: %w", block.Hash, err)
	}
	for i := range entries {
		difficulty := block.Difficulty
		entries[i].Difficulty = &difficulty
	}
	return entries, utxo, nil
}

// Accumulator folds consecutive blocks into a newest-first history.
type Accumulator struct {
	addrs   AddressSet
	utxo    model.Utxo
	perBlk  [][]model.TxHistoryEntry
	total   int
	applied int
}

// NewAccumulator starts a fold from utxo, which the accumulator takes ownership of.
// A nil utxo starts from an empty set.
func NewAccumulator(addrs AddressSet, utxo model.Utxo) *Accumulator {
	if utxo == nil {
		utxo = make(model.Utxo)
	}
	return &Accumulator{addrs: addrs, utxo: utxo}
}

// Apply processes the next block. Blocks must arrive oldest first.
func (a *Accumulator) Apply(block model.Block) error {
	entries, utxo, err := BlockHistory(a.addrs, block, a.utxo)
	if err != nil {
		return err
	}
	a.utxo = utxo
	a.applied++
	if len(entries) > 0 {
		a.perBlk = append(a.perBlk, entries)
		a.total += len(entries)
	}
	return nil
}

// History returns the entries of all applied blocks, newest block first.
func (a *Accumulator) History() []model.TxHistoryEntry {
	out := make([]model.TxHistoryEntry, 0, a.total)
	for i := len(a.perBlk) - 1; i >= 0; i-- {
		out = append(out, a.perBlk[i]...)
	}
	return out
}

// Utxo returns the snapshot after the last applied block.
func (a *Accumulator) Utxo() model.Utxo {
	return a.utxo
}

// Blocks returns how many blocks were applied.
func (a *Accumulator) Blocks() int {
	return a.applied
}
