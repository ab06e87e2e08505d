package model

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// HeaderHash identifies a block.
type HeaderHash = chainhash.Hash

// ChainDifficulty is the depth of a block counted from genesis.
type ChainDifficulty uint64

// Block is the part of a chain block the history scanner consumes.
type Block struct {
	Hash       HeaderHash
	PrevHash   HeaderHash
	Difficulty ChainDifficulty
	Txs        []TxAux
}
