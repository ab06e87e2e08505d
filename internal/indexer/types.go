package indexer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Source is the node the chain is copied from.
	Source interface {
		TipHash(ctx context.Context) (model.HeaderHash, error)
		GenesisBlock(ctx context.Context) (model.Block, error)
		IterateBlocks(ctx context.Context, from, to model.HeaderHash, fn func(model.Block) error) error
	}
	// Store receives copied blocks. TipHash returns chain.ErrEmpty before the first insert.
	Store interface {
		TipHash(ctx context.Context) (model.HeaderHash, error)
		InsertBlocks(ctx context.Context, blocks []model.Block) error
	}
	Metrics interface {
		ObserveSync(err error, blocks int, started time.Time)
	}
)
