package clickhouse

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
	"github.com/goodnatureofminers/slotledger/pkg/safe"
)

const insertBlocksQuery = `
INSERT INTO chain_blocks (
	network,
	height,
	hash,
	prev_hash
) VALUES`

const insertTransactionsQuery = `
INSERT INTO chain_transactions (
	network,
	height,
	tx_index,
	txid,
	input_txids,
	input_indexes,
	output_addresses,
	output_values,
	witness
) VALUES`

// InsertBlocks stores blocks and their transactions. The block difficulty is its height.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.Block) (err error) {
	defer func(started time.Time) {
		r.metrics.Observe("insert_blocks", err, started)
	}(time.Now())

	if len(blocks) == 0 {
		return nil
	}

	// Transactions go first so a visible block row always has its transactions.
	if err = r.insertTransactions(ctx, blocks); err != nil {
		return err
	}

	batch, err := r.conn.PrepareBatch(ctx, insertBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}
	for _, block := range blocks {
		if err = batch.Append(
			r.network,
			uint64(block.Difficulty),
			block.Hash.String(),
			block.PrevHash.String(),
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append block: %w", err)
		}
	}
	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}

func (r *Repository) insertTransactions(ctx context.Context, blocks []model.Block) error {
	batch, err := r.conn.PrepareBatch(ctx, insertTransactionsQuery)
	if err != nil {
		return fmt.Errorf("prepare transactions batch: %w", err)
	}

	for _, block := range blocks {
		for i, aux := range block.Txs {
			txIndex, err := safe.Uint32(i)
			if err != nil {
				_ = batch.Abort()
				return fmt.Errorf("block %s transaction index: %w", block.Hash, err)
			}
			row := txRow(aux)
			if err := batch.Append(
				r.network,
				uint64(block.Difficulty),
				txIndex,
				aux.Tx.ID.String(),
				row.inputTxIDs,
				row.inputIndexes,
				row.outputAddresses,
				row.outputValues,
				row.witness,
			); err != nil {
				_ = batch.Abort()
				return fmt.Errorf("append transaction %s: %w", aux.Tx.ID, err)
			}
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}

type transactionRow struct {
	inputTxIDs      []string
	inputIndexes    []uint32
	outputAddresses []string
	outputValues    []uint64
	witness         []string
}

func txRow(aux model.TxAux) transactionRow {
	row := transactionRow{
		inputTxIDs:      make([]string, 0, len(aux.Tx.Inputs)),
		inputIndexes:    make([]uint32, 0, len(aux.Tx.Inputs)),
		outputAddresses: make([]string, 0, len(aux.Tx.Outputs)),
		outputValues:    make([]uint64, 0, len(aux.Tx.Outputs)),
		witness:         make([]string, 0, len(aux.Witness)),
	}
	for _, in := range aux.Tx.Inputs {
		row.inputTxIDs = append(row.inputTxIDs, in.TxID.String())
		row.inputIndexes = append(row.inputIndexes, in.Index)
	}
	for _, out := range aux.Tx.Outputs {
		row.outputAddresses = append(row.outputAddresses, string(out.Address))
		row.outputValues = append(row.outputValues, out.Value)
	}
	for _, w := range aux.Witness {
		row.witness = append(row.witness, hex.EncodeToString(w))
	}
	return row
}
