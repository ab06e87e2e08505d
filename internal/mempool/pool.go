// Package mempool keeps unconfirmed transactions validated against the confirmed UTXO.
package mempool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/chain"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"go.uber.org/zap"
)

var (
	ErrDuplicate     = errors.New("transaction already pending")
	ErrMissingInput  = errors.New("input does not resolve")
	ErrDoubleSpend   = errors.New("input already spent by a pending transaction")
	ErrInvalidOutput = errors.New("transaction has no spendable outputs")
	ErrPoolFull      = errors.New("mempool is full")
)

// Config limits the pool.
type Config struct {
	MaxTxs int
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.MaxTxs <= 0 {
		return errors.New("mempool capacity must be positive")
	}
	return nil
}

// Pool is an in-memory mempool. Pending transactions are kept in admission
// order, so every transaction follows the pending transactions it spends from.
type Pool struct {
	cfg     Config
	source  UtxoSource
	metrics Metrics
	logger  *zap.Logger

	mu      sync.RWMutex
	pending []model.TxAux
	ids     map[model.TxID]struct{}
	spent   map[model.TxIn]model.TxID
	outputs model.Utxo
}

// NewPool constructs an empty Pool.
func NewPool(cfg Config, source UtxoSource, metrics Metrics, logger *zap.Logger) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("utxo source is required")
	}
	if metrics == nil {
		return nil, errors.New("mempool metrics is required")
	}
	p := &Pool{
		cfg:     cfg,
		source:  source,
		metrics: metrics,
		logger:  logger.Named("mempool"),
	}
	p.reset()
	return p, nil
}

func (p *Pool) reset() {
	p.pending = nil
	p.ids = make(map[model.TxID]struct{})
	p.spent = make(map[model.TxIn]model.TxID)
	p.outputs = make(model.Utxo)
}

// PendingTxs returns a copy of the pending transactions in admission order.
func (p *Pool) PendingTxs(_ context.Context) ([]model.TxAux, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.TxAux, len(p.pending))
	copy(out, p.pending)
	return out, nil
}

// Admit validates tx against the confirmed UTXO and the pending outputs and adds it to the pool.
// Rejections wrap chain.ErrRejected.
func (p *Pool) Admit(ctx context.Context, tx model.TxAux) (err error) {
	defer func(started time.Time) {
		p.metrics.ObserveAdmit(err, started)
	}(time.Now())

	confirmed, err := p.source.TipUtxo(ctx)
	if err != nil {
		return fmt.Errorf("get tip utxo: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) >= p.cfg.MaxTxs {
		return fmt.Errorf("%w: %w", chain.ErrRejected, ErrPoolFull)
	}
	if err := p.check(tx, confirmed); err != nil {
		return fmt.Errorf("%w: %s: %w", chain.ErrRejected, tx.Tx.ID, err)
	}
	p.add(tx)
	p.metrics.SetPending(len(p.pending))
	p.logger.Debug("transaction admitted", zap.Stringer("tx", tx.Tx.ID), zap.Int("pending", len(p.pending)))
	return nil
}

func (p *Pool) check(tx model.TxAux, confirmed model.Utxo) error {
	if _, ok := p.ids[tx.Tx.ID]; ok {
		return ErrDuplicate
	}
	if len(tx.Tx.Outputs) == 0 {
		return ErrInvalidOutput
	}
	for _, out := range tx.Tx.Outputs {
		if out.Value == 0 {
			return ErrInvalidOutput
		}
	}
	seen := make(map[model.TxIn]struct{}, len(tx.Tx.Inputs))
	for _, in := range tx.Tx.Inputs {
		if _, dup := seen[in]; dup {
			return fmt.Errorf("%w: %s:%d spent twice", ErrDoubleSpend, in.TxID, in.Index)
		}
		seen[in] = struct{}{}
		if by, ok := p.spent[in]; ok {
			return fmt.Errorf("%w: %s:%d by %s", ErrDoubleSpend, in.TxID, in.Index, by)
		}
		_, inChain := confirmed[in]
		_, inPool := p.outputs[in]
		if !inChain && !inPool {
			return fmt.Errorf("%w: %s:%d", ErrMissingInput, in.TxID, in.Index)
		}
	}
	return nil
}

func (p *Pool) add(tx model.TxAux) {
	p.pending = append(p.pending, tx)
	p.ids[tx.Tx.ID] = struct{}{}
	for _, in := range tx.Tx.Inputs {
		p.spent[in] = tx.Tx.ID
		delete(p.outputs, in)
	}
	for k, v := range tx.Outputs() {
		p.outputs[k] = v
	}
}

// Prune revalidates the pool after the chain advanced. Confirmed transactions,
// transactions conflicting with the chain and their pending descendants are dropped.
func (p *Pool) Prune(ctx context.Context) error {
	confirmed, err := p.source.TipUtxo(ctx)
	if err != nil {
		return fmt.Errorf("get tip utxo: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	previous := p.pending
	p.reset()
	dropped := 0
	for _, tx := range previous {
		if _, ok := confirmed[model.TxIn{TxID: tx.Tx.ID}]; ok {
			dropped++
			continue
		}
		if err := p.check(tx, confirmed); err != nil {
			dropped++
			p.logger.Debug("transaction dropped", zap.Stringer("tx", tx.Tx.ID), zap.Error(err))
			continue
		}
		p.add(tx)
	}
	p.metrics.SetPending(len(p.pending))
	if dropped > 0 {
		p.logger.Info("mempool pruned", zap.Int("dropped", dropped), zap.Int("pending", len(p.pending)))
	}
	return nil
}
