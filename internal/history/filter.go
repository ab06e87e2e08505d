// Package history reconstructs the transactions relevant to a set of addresses
// by replaying blocks and the mempool over a UTXO snapshot.
package history

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/slotledger/internal/model"
)

var (
	// ErrCyclicBatch means a batch has no dependency-respecting order.
	ErrCyclicBatch = errors.New("transaction batch has a dependency cycle")
	// ErrDuplicateTx means the same transaction id appears twice in a batch.
	ErrDuplicateTx = errors.New("duplicate transaction in batch")
)

// AddressSet is the set of addresses a scan matches against.
type AddressSet map[model.Address]struct{}

// NewAddressSet builds an AddressSet from addrs.
func NewAddressSet(addrs ...model.Address) AddressSet {
	set := make(AddressSet, len(addrs))
	for _, a := range addrs {
		set[a] = struct{}{}
	}
	return set
}

func (s AddressSet) matchesAny(addrs []model.Address) bool {
	for _, a := range addrs {
		if _, ok := s[a]; ok {
			return true
		}
	}
	return false
}

// SortTxs orders txs so that every transaction follows the transactions of the
// batch whose outputs it spends. Independent transactions keep their batch order.
func SortTxs(txs []model.TxAux) ([]model.TxAux, error) {
	index := make(map[model.TxID]int, len(txs))
	for i, tx := range txs {
		if _, dup := index[tx.Tx.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, tx.Tx.ID)
		}
		index[tx.Tx.ID] = i
	}

	graph, indegree, err := buildDependencyGraph(txs, index)
	if err != nil {
		return nil, err
	}

	queue := make([]int, 0, len(txs))
	for i := range txs {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	sorted := make([]model.TxAux, 0, len(txs))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, txs[node])
		for _, next := range graph[node] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(txs) {
		return nil, fmt.Errorf("%w: %d of %d transactions ordered", ErrCyclicBatch, len(sorted), len(txs))
	}
	return sorted, nil
}

// buildDependencyGraph links each producer to the consumers of its outputs.
func buildDependencyGraph(txs []model.TxAux, index map[model.TxID]int) (map[int][]int, []int, error) {
	graph := make(map[int][]int, len(txs))
	indegree := make([]int, len(txs))

	for consumer, tx := range txs {
		seen := make(map[int]struct{})
		for _, in := range tx.Tx.Inputs {
			producer, ok := index[in.TxID]
			if !ok {
				continue
			}
			if producer == consumer {
				return nil, nil, fmt.Errorf("%w: %s spends its own output", ErrCyclicBatch, tx.Tx.ID)
			}
			if _, dup := seen[producer]; dup {
				continue
			}
			seen[producer] = struct{}{}
			graph[producer] = append(graph[producer], consumer)
			indegree[consumer]++
		}
	}
	return graph, indegree, nil
}

// FilterTxs replays txs over utxo in dependency order and returns the entries
// touching addrs along with the updated UTXO. utxo is modified in place and must
// not be shared with other scans; nil is an empty set. Inputs missing from utxo are skipped.
func FilterTxs(addrs AddressSet, txs []model.TxAux, utxo model.Utxo) ([]model.TxHistoryEntry, model.Utxo, error) {
	sorted, err := SortTxs(txs)
	if err != nil {
		return nil, nil, err
	}
	if utxo == nil {
		utxo = make(model.Utxo)
	}

	var entries []model.TxHistoryEntry
	for _, aux := range sorted {
		resolved := utxo.Resolve(aux.Tx.Inputs)
		inputAddrs := uniqueOwners(resolved)
		outputAddrs := make([]model.Address, 0, len(aux.Tx.Outputs))
		for _, out := range aux.Tx.Outputs {
			outputAddrs = append(outputAddrs, out.Address)
		}

		utxo.Apply(aux)

		if addrs.matchesAny(inputAddrs) || addrs.matchesAny(outputAddrs) {
			entries = append(entries, model.TxHistoryEntry{
				ID:             aux.Tx.ID,
				Tx:             aux.Tx,
				ResolvedInputs: resolved,
				InputAddrs:     inputAddrs,
				OutputAddrs:    outputAddrs,
			})
		}
	}
	return entries, utxo, nil
}

func uniqueOwners(outs []model.TxOut) []model.Address {
	seen := make(map[model.Address]struct{}, len(outs))
	owners := make([]model.Address, 0, len(outs))
	for _, out := range outs {
		if _, ok := seen[out.Address]; ok {
			continue
		}
		seen[out.Address] = struct{}{}
		owners = append(owners, out.Address)
	}
	return owners
}
