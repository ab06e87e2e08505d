package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/slotledger/internal/chain"
	"github.com/goodnatureofminers/slotledger/internal/chain/bitcoin"
	"github.com/goodnatureofminers/slotledger/internal/history"
	"github.com/goodnatureofminers/slotledger/internal/indexer"
	"github.com/goodnatureofminers/slotledger/internal/mempool"
	"github.com/goodnatureofminers/slotledger/internal/metrics"
	"github.com/goodnatureofminers/slotledger/internal/model"
	observed "github.com/goodnatureofminers/slotledger/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/slotledger/internal/repository/clickhouse"
	"go.uber.org/zap"
)

// backend bundles the history collaborators of one block source with the
// background tasks and per-slot hooks it needs.
type backend struct {
	blocks  history.BlockStore
	genesis history.GenesisProvider
	mempool history.Mempool
	tasks   []func(context.Context) error
	onSlot  []func(context.Context, model.SlotID)
	closers []func()
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func newBackend(ctx context.Context, cfg config, logger *zap.Logger) (*backend, error) {
	switch cfg.BlockSource {
	case "memory":
		return newMemoryBackend(cfg, logger)
	case "rpc":
		b, _, err := newRPCBackend(cfg, logger)
		return b, err
	case "clickhouse":
		return newClickhouseBackend(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown block source %q", cfg.BlockSource)
	}
}

// newMemoryBackend serves a single-block chain funding cfg.GenesisAddress.
func newMemoryBackend(cfg config, logger *zap.Logger) (*backend, error) {
	genesisTx := model.TxAux{Tx: model.NewTx(nil, []model.TxOut{{
		Address: model.Address(cfg.GenesisAddress),
		Value:   cfg.GenesisValue,
	}})}
	genesis := model.Block{
		Hash: chainhash.DoubleHashH(genesisTx.Tx.ID[:]),
		Txs:  []model.TxAux{genesisTx},
	}
	utxo := make(model.Utxo)
	utxo.Apply(genesisTx)
	store := chain.NewMemoryStore(genesis, utxo)

	logger = logger.Named("mempool")
	pool, err := mempool.NewPool(mempool.Config{MaxTxs: cfg.MempoolMaxTxs}, store, metrics.NewMempool(), logger)
	if err != nil {
		return nil, fmt.Errorf("init mempool: %w", err)
	}

	prune := func(ctx context.Context, slot model.SlotID) {
		if err := pool.Prune(ctx); err != nil {
			logger.Warn("mempool prune failed", zap.Stringer("slot", slot), zap.Error(err))
		}
	}
	return &backend{
		blocks:  store,
		genesis: store,
		mempool: pool,
		onSlot:  []func(context.Context, model.SlotID){prune},
	}, nil
}

// newRPCBackend reads blocks and the mempool straight from a bitcoind-compatible node.
func newRPCBackend(cfg config, logger *zap.Logger) (*backend, *bitcoin.Source, error) {
	client, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("init rpc client: %w", err)
	}
	b := &backend{closers: []func(){func() {
		client.Shutdown()
		client.WaitForShutdown()
	}}}

	rpc := observed.NewObservedClient(client, metrics.NewRPCClient(cfg.Network))
	decoder, err := bitcoin.NewScriptDecoder(cfg.Network)
	if err != nil {
		b.close()
		return nil, nil, err
	}
	source, err := bitcoin.NewSource(bitcoin.SourceConfig{Prefetch: cfg.RPCPrefetch, RPS: cfg.RPCRPS}, rpc, decoder, logger)
	if err != nil {
		b.close()
		return nil, nil, fmt.Errorf("init block source: %w", err)
	}
	pool, err := bitcoin.NewMempool(rpc, decoder, cfg.RPCPrefetch, logger)
	if err != nil {
		b.close()
		return nil, nil, fmt.Errorf("init mempool: %w", err)
	}

	b.blocks, b.genesis, b.mempool = source, source, pool
	return b, source, nil
}

// newClickhouseBackend scans blocks copied into ClickHouse by an indexer following the node.
func newClickhouseBackend(ctx context.Context, cfg config, logger *zap.Logger) (*backend, error) {
	if cfg.ClickhouseDSN == "" {
		return nil, errors.New("clickhouse dsn is required for the clickhouse block source")
	}
	b, source, err := newRPCBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	repo, err := clickhouse.NewRepository(clickhouse.Config{
		DSN:      cfg.ClickhouseDSN,
		Network:  cfg.Network,
		PageSize: uint64(cfg.IndexBatchSize),
	}, metrics.NewClickhouseRepository(cfg.Network))
	if err != nil {
		b.close()
		return nil, fmt.Errorf("init repository: %w", err)
	}
	b.closers = append(b.closers, func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	})

	blockSignal, err := startBlockSignal(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		b.close()
		return nil, err
	}
	idx, err := indexer.NewService(
		indexer.Config{BatchSize: cfg.IndexBatchSize, PollInterval: cfg.SlotDuration},
		source,
		repo,
		metrics.NewIndexer(cfg.Network),
		logger,
		blockSignal,
	)
	if err != nil {
		b.close()
		return nil, fmt.Errorf("init indexer: %w", err)
	}

	b.blocks, b.genesis = repo, repo
	b.tasks = append(b.tasks, idx.Run)
	return b, nil
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
