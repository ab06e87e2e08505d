package model

// TxHistoryEntry is one transaction relevant to a queried address set.
type TxHistoryEntry struct {
	ID             TxID
	Tx             Tx
	ResolvedInputs []TxOut
	// Difficulty is nil for unconfirmed (mempool) transactions.
	Difficulty  *ChainDifficulty
	InputAddrs  []Address
	OutputAddrs []Address
}

// Checkpoint allows a later scan to resume from Hash with Utxo as its baseline.
type Checkpoint struct {
	Hash HeaderHash
	Utxo Utxo
}

// TxHistoryAnswer is the result of a history query. TipHash and CachedUtxo
// form a Checkpoint for an incremental follow-up call.
type TxHistoryAnswer struct {
	TipHash    HeaderHash
	CachedUtxo Utxo
	History    []TxHistoryEntry
}

// Checkpoint returns the resumable state of the answer.
func (a TxHistoryAnswer) Checkpoint() Checkpoint {
	return Checkpoint{Hash: a.TipHash, Utxo: a.CachedUtxo}
}
