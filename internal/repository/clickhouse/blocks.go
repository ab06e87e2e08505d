package clickhouse

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/slotledger/internal/chain"
	"github.com/goodnatureofminers/slotledger/internal/model"
)

const tipHashQuery = `
SELECT hash
FROM chain_blocks FINAL
WHERE network = ?
ORDER BY height DESC
LIMIT 1`

const heightByHashQuery = `
SELECT height
FROM chain_blocks FINAL
WHERE network = ? AND hash = CAST(? AS FixedString(64))
LIMIT 1`

const blocksRangeQuery = `
SELECT height, hash, prev_hash
FROM chain_blocks FINAL
WHERE network = ? AND height BETWEEN ? AND ?
ORDER BY height ASC`

const transactionsRangeQuery = `
SELECT
	height,
	txid,
	input_txids,
	input_indexes,
	output_addresses,
	output_values,
	witness
FROM chain_transactions FINAL
WHERE network = ? AND height BETWEEN ? AND ?
ORDER BY height ASC, tx_index ASC`

// TipHash returns the hash of the highest stored block.
func (r *Repository) TipHash(ctx context.Context) (hash model.HeaderHash, err error) {
	defer func(started time.Time) {
		r.metrics.Observe("tip_hash", err, started)
	}(time.Now())

	rows, err := r.conn.Query(ctx, tipHashQuery, r.network)
	if err != nil {
		return model.HeaderHash{}, fmt.Errorf("query tip hash: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.HeaderHash{}, fmt.Errorf("iterate tip hash: %w", err)
		}
		return model.HeaderHash{}, chain.ErrEmpty
	}
	var raw string
	if err = rows.Scan(&raw); err != nil {
		return model.HeaderHash{}, fmt.Errorf("scan tip hash: %w", err)
	}
	return parseHash(raw)
}

// IterateBlocks calls fn for every stored block after from up to and including to, oldest first.
func (r *Repository) IterateBlocks(ctx context.Context, from, to model.HeaderHash, fn func(model.Block) error) (err error) {
	defer func(started time.Time) {
		r.metrics.Observe("iterate_blocks", err, started)
	}(time.Now())

	fromHeight, err := r.heightOf(ctx, from)
	if err != nil {
		return err
	}
	toHeight, err := r.heightOf(ctx, to)
	if err != nil {
		return err
	}
	if fromHeight > toHeight {
		return fmt.Errorf("%w: start %s is above %s", chain.ErrNoPath, from, to)
	}

	prev := from
	for start := fromHeight + 1; start <= toHeight; start += r.pageSize {
		end := min(start+r.pageSize-1, toHeight)
		blocks, err := r.blocksRange(ctx, start, end)
		if err != nil {
			return err
		}
		if uint64(len(blocks)) != end-start+1 {
			return fmt.Errorf("%w: heights %d..%d have %d stored blocks", chain.ErrNoPath, start, end, len(blocks))
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
	}
	if prev != to {
		return fmt.Errorf("%w: reached %s instead of %s", chain.ErrNoPath, prev, to)
	}
	return nil
}

// GenesisHash returns the hash of the stored block at height zero.
func (r *Repository) GenesisHash(ctx context.Context) (hash model.HeaderHash, err error) {
	defer func(started time.Time) {
		r.metrics.Observe("genesis_hash", err, started)
	}(time.Now())

	blocks, err := r.blocksRange(ctx, 0, 0)
	if err != nil {
		return model.HeaderHash{}, err
	}
	if len(blocks) == 0 {
		return model.HeaderHash{}, chain.ErrEmpty
	}
	return blocks[0].Hash, nil
}

// GenesisUtxo returns the outputs created by the stored genesis block.
func (r *Repository) GenesisUtxo(ctx context.Context) (utxo model.Utxo, err error) {
	defer func(started time.Time) {
		r.metrics.Observe("genesis_utxo", err, started)
	}(time.Now())

	blocks, err := r.blocksRange(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, chain.ErrEmpty
	}
	utxo = make(model.Utxo)
	for _, tx := range blocks[0].Txs {
		utxo.Apply(tx)
	}
	return utxo, nil
}

func (r *Repository) heightOf(ctx context.Context, hash model.HeaderHash) (height uint64, err error) {
	rows, err := r.conn.Query(ctx, heightByHashQuery, r.network, hash.String())
	if err != nil {
		return 0, fmt.Errorf("query height of %s: %w", hash, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return 0, fmt.Errorf("iterate height of %s: %w", hash, err)
		}
		return 0, fmt.Errorf("%w: %s: %w", chain.ErrNoPath, hash, chain.ErrUnknownBlock)
	}
	if err = rows.Scan(&height); err != nil {
		return 0, fmt.Errorf("scan height of %s: %w", hash, err)
	}
	return height, nil
}

func (r *Repository) blocksRange(ctx context.Context, from, to uint64) ([]model.Block, error) {
	blocks, err := r.blockHeaders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byHeight := make(map[uint64]int, len(blocks))
	for i, b := range blocks {
		byHeight[uint64(b.Difficulty)] = i
	}
	if err := r.blockTransactions(ctx, from, to, func(height uint64, tx model.TxAux) {
		if i, ok := byHeight[height]; ok {
			blocks[i].Txs = append(blocks[i].Txs, tx)
		}
	}); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *Repository) blockHeaders(ctx context.Context, from, to uint64) (blocks []model.Block, err error) {
	rows, err := r.conn.Query(ctx, blocksRangeQuery, r.network, from, to)
	if err != nil {
		return nil, fmt.Errorf("query blocks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			height         uint64
			hash, prevHash string
		)
		if err = rows.Scan(&height, &hash, &prevHash); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		block := model.Block{Difficulty: model.ChainDifficulty(height)}
		if block.Hash, err = parseHash(hash); err != nil {
			return nil, err
		}
		if block.PrevHash, err = parseHash(prevHash); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return blocks, nil
}

func (r *Repository) blockTransactions(ctx context.Context, from, to uint64, add func(uint64, model.TxAux)) (err error) {
	rows, err := r.conn.Query(ctx, transactionsRangeQuery, r.network, from, to)
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			height uint64
			txid   string
			row    transactionRow
		)
		if err = rows.Scan(
			&height,
			&txid,
			&row.inputTxIDs,
			&row.inputIndexes,
			&row.outputAddresses,
			&row.outputValues,
			&row.witness,
		); err != nil {
			return fmt.Errorf("scan transaction: %w", err)
		}
		tx, convErr := row.toTxAux(txid)
		if convErr != nil {
			err = convErr
			return err
		}
		add(height, tx)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate transactions: %w", err)
	}
	return nil
}

func (row transactionRow) toTxAux(txid string) (model.TxAux, error) {
	id, err := parseHash(txid)
	if err != nil {
		return model.TxAux{}, err
	}
	if len(row.inputTxIDs) != len(row.inputIndexes) || len(row.outputAddresses) != len(row.outputValues) {
		return model.TxAux{}, fmt.Errorf("transaction %s has mismatched columns", txid)
	}

	aux := model.TxAux{Tx: model.Tx{ID: id}}
	for i, raw := range row.inputTxIDs {
		prev, err := parseHash(raw)
		if err != nil {
			return model.TxAux{}, err
		}
		aux.Tx.Inputs = append(aux.Tx.Inputs, model.TxIn{TxID: prev, Index: row.inputIndexes[i]})
	}
	for i, addr := range row.outputAddresses {
		aux.Tx.Outputs = append(aux.Tx.Outputs, model.TxOut{Address: model.Address(addr), Value: row.outputValues[i]})
	}
	for _, w := range row.witness {
		raw, err := hex.DecodeString(w)
		if err != nil {
			return model.TxAux{}, fmt.Errorf("transaction %s witness: %w", txid, err)
		}
		aux.Witness = append(aux.Witness, raw)
	}
	return aux, nil
}

func parseHash(raw string) (model.HeaderHash, error) {
	hash, err := chainhash.NewHashFromStr(raw)
	if err != nil {
		return model.HeaderHash{}, fmt.Errorf("parse hash %q: %w", raw, err)
	}
	return *hash, nil
}
