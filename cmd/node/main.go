// Command node runs the slot clock with NTP correction and scans watched addresses
// against the configured block source.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/clock"
	"github.com/goodnatureofminers/slotledger/internal/history"
	"github.com/goodnatureofminers/slotledger/internal/metrics"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"github.com/goodnatureofminers/slotledger/internal/ntp"
	"github.com/goodnatureofminers/slotledger/internal/slotclock"
	"github.com/goodnatureofminers/slotledger/internal/slotting"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	NTPServers         []string      `long:"ntp-server" env:"SLOTLEDGER_NTP_SERVERS" env-delim:"," description:"NTP server to poll (repeatable)"`
	NTPResponseTimeout time.Duration `long:"ntp-response-timeout" env:"SLOTLEDGER_NTP_RESPONSE_TIMEOUT" default:"5s" description:"time to collect NTP responses per poll"`
	NTPUrgentTimeout   time.Duration `long:"ntp-urgent-timeout" env:"SLOTLEDGER_NTP_URGENT_TIMEOUT" default:"1s" description:"response timeout of the startup poll"`
	NTPPollDelay       time.Duration `long:"ntp-poll-delay" env:"SLOTLEDGER_NTP_POLL_DELAY" default:"300s" description:"interval between NTP polls"`
	NTPMaxError        time.Duration `long:"ntp-max-error" env:"SLOTLEDGER_NTP_MAX_ERROR" default:"120s" description:"tolerated clock error between polls"`
	DevMode            bool          `long:"dev-mode" env:"SLOTLEDGER_DEV_MODE" description:"skip NTP and trust the local clock"`

	EpochSlots   uint64        `long:"epoch-slots" env:"SLOTLEDGER_EPOCH_SLOTS" default:"21600" description:"slots per epoch"`
	SlotDuration time.Duration `long:"slot-duration" env:"SLOTLEDGER_SLOT_DURATION" default:"20s" description:"duration of one slot"`
	SystemStart  int64         `long:"system-start" env:"SLOTLEDGER_SYSTEM_START" description:"unix seconds at which slot 0/0 begins (default: process start)"`

	BlockSource    string   `long:"block-source" env:"SLOTLEDGER_BLOCK_SOURCE" default:"memory" choice:"memory" choice:"rpc" choice:"clickhouse" description:"where history scans read blocks from"`
	Network        string   `long:"network" env:"SLOTLEDGER_NETWORK" default:"regtest" description:"bitcoin network name"`
	RPCURL         string   `long:"rpc-url" env:"SLOTLEDGER_RPC_URL" default:"http://127.0.0.1:18443" description:"Bitcoin RPC URL"`
	RPCUser        string   `long:"rpc-user" env:"SLOTLEDGER_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword    string   `long:"rpc-password" env:"SLOTLEDGER_RPC_PASSWORD" description:"Bitcoin RPC password"`
	RPCPrefetch    int      `long:"rpc-prefetch" env:"SLOTLEDGER_RPC_PREFETCH" default:"16" description:"blocks fetched concurrently while iterating"`
	RPCRPS         int      `long:"rpc-rps" env:"SLOTLEDGER_RPC_RPS" default:"0" description:"block fetches per second, 0 for unlimited"`
	ClickhouseDSN  string   `long:"clickhouse-dsn" env:"SLOTLEDGER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	IndexBatchSize int      `long:"index-batch-size" env:"SLOTLEDGER_INDEX_BATCH_SIZE" default:"500" description:"blocks per ClickHouse insert"`
	ZMQAddr        string   `long:"zmq-addr" env:"SLOTLEDGER_ZMQ_ADDR" description:"bitcoind zmq endpoint announcing new blocks"`
	MempoolMaxTxs  int      `long:"mempool-max-txs" env:"SLOTLEDGER_MEMPOOL_MAX_TXS" default:"10000" description:"capacity of the in-memory mempool"`
	GenesisAddress string   `long:"genesis-address" env:"SLOTLEDGER_GENESIS_ADDRESS" default:"genesis" description:"address funded by the in-memory genesis block"`
	GenesisValue   uint64   `long:"genesis-value" env:"SLOTLEDGER_GENESIS_VALUE" default:"1000000" description:"value of the in-memory genesis output"`
	WatchAddresses []string `long:"watch-address" env:"SLOTLEDGER_WATCH_ADDRESSES" env-delim:"," description:"address whose history is rescanned every slot (repeatable)"`

	MetricsAddr string `long:"metrics-addr" env:"SLOTLEDGER_METRICS_ADDR" default:":2112" description:"address for metrics server"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}
	if len(cfg.NTPServers) == 0 {
		cfg.NTPServers = ntp.DefaultServers
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("node failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	if cfg.SlotDuration <= 0 {
		return errors.New("slot duration must be positive")
	}
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	clk := clock.System{}
	systemStart := clk.Now()
	if cfg.SystemStart != 0 {
		systemStart = model.TimestampFromTime(time.Unix(cfg.SystemStart, 0))
	}

	slots, err := slotting.NewStore(
		slotting.Config{SystemStart: systemStart, EpochSlots: cfg.EpochSlots},
		slotting.GenesisData(cfg.EpochSlots, cfg.SlotDuration),
		logger.Named("slotting"),
	)
	if err != nil {
		return fmt.Errorf("init slotting: %w", err)
	}

	cell := slotclock.NewCell(clk.Now())
	slotClock, err := slotclock.NewSlotClock(
		slotclock.Config{PollDelay: cfg.NTPPollDelay, MaxError: cfg.NTPMaxError},
		cell, slots, clk, metrics.NewSlotClock(), logger.Named("slot_clock"),
	)
	if err != nil {
		return fmt.Errorf("init slot clock: %w", err)
	}

	worker, err := ntp.NewWorker(ntp.WorkerConfig{
		Servers:         cfg.NTPServers,
		ResponseTimeout: cfg.NTPResponseTimeout,
		UrgentTimeout:   cfg.NTPUrgentTimeout,
		PollInterval:    cfg.NTPPollDelay,
		DevMode:         cfg.DevMode,
	}, ntp.NewClient(clk), cell, clk, metrics.NewNTPWorker(), logger.Named("ntp"))
	if err != nil {
		return fmt.Errorf("init ntp worker: %w", err)
	}

	back, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer back.close()

	historySvc, err := history.NewService(back.blocks, back.genesis, back.mempool, metrics.NewHistory(), logger)
	if err != nil {
		return fmt.Errorf("init history: %w", err)
	}

	var onSlot []func(context.Context, model.SlotID)
	if len(cfg.WatchAddresses) > 0 {
		w := newWatcher(historySvc, cfg.WatchAddresses, logger)
		onSlot = append(onSlot, w.onSlot)
	}
	onSlot = append(onSlot, back.onSlot...)

	ticker := newSlotTicker(slotClock, slots, cfg.SlotDuration, onSlot, logger)
	extender := newScheduleExtender(slotClock, slots, cfg.SlotDuration, logger)

	tasks := append([]func(context.Context) error{worker.Run, extender.Run, ticker.Run}, back.tasks...)
	return runAll(ctx, tasks...)
}

// runAll runs tasks until the first one fails or ctx is canceled, then waits for the rest.
func runAll(ctx context.Context, tasks ...func(context.Context) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		eg.Go(func() error {
			return task(ctx)
		})
	}
	return eg.Wait()
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
