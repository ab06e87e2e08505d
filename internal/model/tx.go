package model

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Address is the encoded owner of an output.
type Address string

// TxID identifies a transaction.
type TxID = chainhash.Hash

// TxIn references an output of an earlier transaction. It doubles as the UTXO key.
type TxIn struct {
	TxID  TxID
	Index uint32
}

// TxOut is an output paying Value to Address.
type TxOut struct {
	Address Address
	Value   uint64
}

// Tx consumes inputs and produces outputs.
type Tx struct {
	ID      TxID
	Inputs  []TxIn
	Outputs []TxOut
}

// NewTx builds a transaction and derives its ID from the canonical encoding.
func NewTx(inputs []TxIn, outputs []TxOut) Tx {
	tx := Tx{Inputs: inputs, Outputs: outputs}
	tx.ID = tx.Hash()
	return tx
}

// Hash computes the double SHA-256 of the canonical encoding of inputs and outputs.
func (tx Tx) Hash() TxID {
	var buf bytes.Buffer
	var scratch [8]byte

	_ = wire.WriteVarInt(&buf, 0, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf.Write(in.TxID[:])
		binary.LittleEndian.PutUint32(scratch[:4], in.Index)
		buf.Write(scratch[:4])
	}
	_ = wire.WriteVarInt(&buf, 0, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		_ = wire.WriteVarString(&buf, 0, string(out.Address))
		binary.LittleEndian.PutUint64(scratch[:], out.Value)
		buf.Write(scratch[:])
	}
	return chainhash.DoubleHashH(buf.Bytes())
}

// StakeShare assigns part of an output's stake to a holder.
type StakeShare struct {
	Address Address
	Value   uint64
}

// TxOutDistribution is the stake distribution attached to a single output.
type TxOutDistribution []StakeShare

// TxWitness carries the per-input witnesses of a transaction.
type TxWitness [][]byte

// TxAux is a transaction together with its witness and per-output distribution.
type TxAux struct {
	Tx           Tx
	Witness      TxWitness
	Distribution []TxOutDistribution
}

// TxOutAux is a spendable output with its distribution metadata.
type TxOutAux struct {
	Output       TxOut
	Distribution TxOutDistribution
}

// Outputs returns the UTXO entries produced by the transaction.
func (a TxAux) Outputs() map[TxIn]TxOutAux {
	outs := make(map[TxIn]TxOutAux, len(a.Tx.Outputs))
	for i, out := range a.Tx.Outputs {
		var dist TxOutDistribution
		if i < len(a.Distribution) {
			dist = a.Distribution[i]
		}
		outs[TxIn{TxID: a.Tx.ID, Index: uint32(i)}] = TxOutAux{Output: out, Distribution: dist}
	}
	return outs
}
