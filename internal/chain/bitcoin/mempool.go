package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/slotledger/internal/chain"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"github.com/goodnatureofminers/slotledger/pkg/workerpool"
	"go.uber.org/zap"
)

// Mempool lists and relays unconfirmed transactions through the node.
type Mempool struct {
	rpc     RPCClient
	decoder *ScriptDecoder
	workers int
	logger  *zap.Logger
}

// NewMempool constructs a Mempool fetching pending transactions with workers concurrent calls.
func NewMempool(rpc RPCClient, decoder *ScriptDecoder, workers int, logger *zap.Logger) (*Mempool, error) {
	if workers <= 0 {
		return nil, errors.New("mempool workers must be positive")
	}
	return &Mempool{
		rpc:     rpc,
		decoder: decoder,
		workers: workers,
		logger:  logger.Named("bitcoin_mempool"),
	}, nil
}

// PendingTxs returns the node's mempool. Transactions evicted between listing
// and fetching are skipped.
func (m *Mempool) PendingTxs(ctx context.Context) ([]model.TxAux, error) {
	hashes, err := m.rpc.GetRawMempool()
	if err != nil {
		return nil, fmt.Errorf("get raw mempool: %w", err)
	}

	fetched, err := workerpool.Map(ctx, m.workers, hashes, func(_ context.Context, hash *chainhash.Hash) (*model.TxAux, error) {
		raw, err := m.rpc.GetRawTransactionVerbose(hash)
		if err != nil {
			m.logger.Debug("mempool transaction vanished", zap.Stringer("tx", hash), zap.Error(err))
			return nil, nil
		}
		tx, err := m.decoder.ConvertTx(*raw)
		if err != nil {
			return nil, err
		}
		return &tx, nil
	})
	if err != nil {
		return nil, err
	}

	txs := make([]model.TxAux, 0, len(fetched))
	for _, tx := range fetched {
		if tx != nil {
			txs = append(txs, *tx)
		}
	}
	return txs, nil
}

// Admit relays tx to the node. Rejections wrap chain.ErrRejected.
func (m *Mempool) Admit(_ context.Context, tx model.TxAux) error {
	msg, err := m.decoder.BuildMsgTx(tx)
	if err != nil {
		return fmt.Errorf("%w: build %s: %w", chain.ErrRejected, tx.Tx.ID, err)
	}
	hash, err := m.rpc.SendRawTransaction(msg, false)
	if err != nil {
		return fmt.Errorf("%w: send %s: %w", chain.ErrRejected, tx.Tx.ID, err)
	}
	m.logger.Info("transaction relayed", zap.Stringer("txid", hash))
	return nil
}
