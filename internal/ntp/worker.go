package ntp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/clock"
	"github.com/goodnatureofminers/slotledger/pkg/workerpool"
	"go.uber.org/zap"
)

// ErrNoResponses is returned when no server answered within the timeout.
var ErrNoResponses = errors.New("no ntp server responded")

// DefaultServers are queried when none are configured.
var DefaultServers = []string{
	"pool.ntp.org",
	"time.google.com",
	"time.cloudflare.com",
	"time.windows.com",
}

// WorkerConfig controls the polling loop.
type WorkerConfig struct {
	Servers         []string
	ResponseTimeout time.Duration
	// UrgentTimeout bounds the single poll made at startup.
	UrgentTimeout time.Duration
	PollInterval  time.Duration
	// DevMode skips the network and records a zero margin every interval.
	DevMode bool
}

// Validate ensures the configuration is usable.
func (c WorkerConfig) Validate() error {
	if !c.DevMode && len(c.Servers) == 0 {
		return errors.New("at least one ntp server is required")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if !c.DevMode && (c.ResponseTimeout <= 0 || c.UrgentTimeout <= 0) {
		return errors.New("response timeouts must be positive")
	}
	return nil
}

// Worker periodically samples time servers and writes the lower-median offset to the state.
type Worker struct {
	cfg     WorkerConfig
	querier Querier
	state   StateWriter
	clock   clock.Clock
	metrics WorkerMetrics
	logger  *zap.Logger
}

// NewWorker constructs a Worker.
func NewWorker(cfg WorkerConfig, querier Querier, state StateWriter, clk clock.Clock, metrics WorkerMetrics, logger *zap.Logger) (*Worker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errors.New("ntp worker metrics is required")
	}
	return &Worker{
		cfg:     cfg,
		querier: querier,
		state:   state,
		clock:   clk,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Run polls until ctx is canceled. The first poll happens immediately with the
// urgent timeout so the node gets a correction without waiting a full interval.
func (w *Worker) Run(ctx context.Context) error {
	if w.cfg.DevMode {
		w.logger.Info("development mode, network time is not used")
		return w.runLocal(ctx)
	}

	if err := w.poll(ctx, w.cfg.UrgentTimeout); err != nil {
		w.logger.Warn("urgent ntp poll failed", zap.Error(err))
	}
	for {
		if err := w.clock.Sleep(ctx, w.cfg.PollInterval); err != nil {
			return err
		}
		if err := w.poll(ctx, w.cfg.ResponseTimeout); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Warn("ntp poll failed", zap.Error(err))
		}
	}
}

func (w *Worker) runLocal(ctx context.Context) error {
	for {
		w.state.Update(0, w.clock.Now())
		if err := w.clock.Sleep(ctx, w.cfg.PollInterval); err != nil {
			return err
		}
	}
}

func (w *Worker) poll(ctx context.Context, timeout time.Duration) (err error) {
	started := time.Now()
	var (
		mu      sync.Mutex
		samples []Sample
		offset  time.Duration
	)
	defer func() {
		w.metrics.ObservePoll(err, len(samples), offset, started)
	}()

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Servers that fail are skipped; the pool only stops when pollCtx expires.
	_ = workerpool.Process(pollCtx, len(w.cfg.Servers), w.cfg.Servers, func(ctx context.Context, server string) error {
		sample, qerr := w.querier.Query(ctx, server)
		if qerr != nil {
			w.logger.Debug("ntp server did not answer", zap.String("server", server), zap.Error(qerr))
			return nil
		}
		mu.Lock()
		samples = append(samples, sample)
		mu.Unlock()
		return nil
	}, nil)

	if err = ctx.Err(); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if len(samples) == 0 {
		err = fmt.Errorf("%w within %s", ErrNoResponses, timeout)
		return err
	}

	selected := SelectMedian(samples)
	offset = selected.Offset
	w.state.Update(selected.Offset, selected.LocalTime)
	w.logger.Debug("ntp margin updated",
		zap.String("server", selected.Server),
		zap.Duration("margin", selected.Offset),
		zap.Int("responders", len(samples)))
	return nil
}

// SelectMedian returns the sample with the lower-median offset: the element at
// index (n-1)/2 after sorting by offset. samples must not be empty.
func SelectMedian(samples []Sample) Sample {
	sorted := append([]Sample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	return sorted[(len(sorted)-1)/2]
}
