package mempool

import (
	"context"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// UtxoSource provides the confirmed UTXO at the chain tip.
	UtxoSource interface {
		TipUtxo(ctx context.Context) (model.Utxo, error)
	}
	// Metrics records admission outcomes and pool size.
	Metrics interface {
		ObserveAdmit(err error, started time.Time)
		SetPending(n int)
	}
)
