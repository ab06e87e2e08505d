package history

import (
	"context"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BlockStore walks the main chain.
	BlockStore interface {
		TipHash(ctx context.Context) (model.HeaderHash, error)
		IterateBlocks(ctx context.Context, from, to model.HeaderHash, fn func(model.Block) error) error
	}
	// GenesisProvider supplies the scan baseline when no checkpoint is given.
	GenesisProvider interface {
		GenesisHash(ctx context.Context) (model.HeaderHash, error)
		GenesisUtxo(ctx context.Context) (model.Utxo, error)
	}
	// Mempool exposes pending transactions and admission.
	Mempool interface {
		PendingTxs(ctx context.Context) ([]model.TxAux, error)
		Admit(ctx context.Context, tx model.TxAux) error
	}
	// Metrics records scan and submission outcomes.
	Metrics interface {
		ObserveScan(err error, chainEntries, mempoolEntries int, started time.Time)
		ObserveSubmit(err error, started time.Time)
	}
)
