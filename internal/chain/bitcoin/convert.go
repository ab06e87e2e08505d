// Package bitcoin serves blocks, genesis and mempool from a bitcoind-compatible node.
package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/slotledger/internal/model"
	"github.com/goodnatureofminers/slotledger/pkg/safe"
)

// BtcToSatoshis converts BTC amount to satoshis with overflow checks.
func BtcToSatoshis(value float64) (uint64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return safe.Uint64(int64(amt))
}

// ConvertTx maps a verbose RPC transaction. Coinbase inputs are dropped and each
// input's signature script and witness stack are packed into its witness entry.
func (d *ScriptDecoder) ConvertTx(src btcjson.TxRawResult) (model.TxAux, error) {
	id, err := chainhash.NewHashFromStr(src.Txid)
	if err != nil {
		return model.TxAux{}, fmt.Errorf("tx id %q: %w", src.Txid, err)
	}

	tx := model.Tx{ID: *id}
	var witness model.TxWitness
	for idx, vin := range src.Vin {
		if vin.IsCoinBase() {
			continue
		}
		prev, err := chainhash.NewHashFromStr(vin.Txid)
		if err != nil {
			return model.TxAux{}, fmt.Errorf("tx %s input %d: %w", src.Txid, idx, err)
		}
		tx.Inputs = append(tx.Inputs, model.TxIn{TxID: *prev, Index: vin.Vout})

		stack, err := decodeWitness(vin)
		if err != nil {
			return model.TxAux{}, fmt.Errorf("tx %s input %d witness: %w", src.Txid, idx, err)
		}
		witness = append(witness, stack)
	}

	for idx, vout := range src.Vout {
		value, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return model.TxAux{}, fmt.Errorf("tx %s output %d value: %w", src.Txid, idx, err)
		}
		addr, err := d.Address(vout)
		if err != nil {
			return model.TxAux{}, fmt.Errorf("decode address for tx %s output %d: %w", src.Txid, idx, err)
		}
		tx.Outputs = append(tx.Outputs, model.TxOut{Address: addr, Value: value})
	}

	return model.TxAux{Tx: tx, Witness: witness}, nil
}

func decodeWitness(vin btcjson.Vin) ([]byte, error) {
	var sigScript []byte
	if vin.ScriptSig != nil && vin.ScriptSig.Hex != "" {
		raw, err := hex.DecodeString(vin.ScriptSig.Hex)
		if err != nil {
			return nil, err
		}
		sigScript = raw
	}
	stack := make(wire.TxWitness, 0, len(vin.Witness))
	for _, item := range vin.Witness {
		raw, err := hex.DecodeString(item)
		if err != nil {
			return nil, err
		}
		stack = append(stack, raw)
	}
	return packWitness(sigScript, stack)
}

// packWitness encodes an input as varbytes(sigScript) || varint(n) || n*varbytes(item).
func packWitness(sigScript []byte, stack wire.TxWitness) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarBytes(&buf, 0, sigScript); err != nil {
		return nil, err
	}
	if err := wire.WriteVarInt(&buf, 0, uint64(len(stack))); err != nil {
		return nil, err
	}
	for _, item := range stack {
		if err := wire.WriteVarBytes(&buf, 0, item); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// unpackWitness reverses packWitness. An empty entry yields no scripts.
func unpackWitness(raw []byte) ([]byte, wire.TxWitness, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}
	r := bytes.NewReader(raw)
	sigScript, err := wire.ReadVarBytes(r, 0, wire.MaxMessagePayload, "sigScript")
	if err != nil {
		return nil, nil, err
	}
	n, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, nil, err
	}
	if n > uint64(r.Len()) {
		return nil, nil, fmt.Errorf("witness claims %d items in %d bytes", n, r.Len())
	}
	var stack wire.TxWitness
	for i := uint64(0); i < n; i++ {
		item, err := wire.ReadVarBytes(r, 0, wire.MaxMessagePayload, "witness item")
		if err != nil {
			return nil, nil, err
		}
		stack = append(stack, item)
	}
	if r.Len() != 0 {
		return nil, nil, fmt.Errorf("%d trailing witness bytes", r.Len())
	}
	if len(sigScript) == 0 {
		sigScript = nil
	}
	return sigScript, stack, nil
}

// ConvertBlock maps a verbose RPC block. The block height is used as chain difficulty.
func (d *ScriptDecoder) ConvertBlock(src btcjson.GetBlockVerboseTxResult) (model.Block, error) {
	hash, err := chainhash.NewHashFromStr(src.Hash)
	if err != nil {
		return model.Block{}, fmt.Errorf("block hash %q: %w", src.Hash, err)
	}
	block := model.Block{Hash: *hash}
	if src.PreviousHash != "" {
		prev, err := chainhash.NewHashFromStr(src.PreviousHash)
		if err != nil {
			return model.Block{}, fmt.Errorf("block %s previous hash: %w", src.Hash, err)
		}
		block.PrevHash = *prev
	}
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %s height: %w", src.Hash, err)
	}
	block.Difficulty = model.ChainDifficulty(height)

	block.Txs = make([]model.TxAux, 0, len(src.Tx))
	for _, raw := range src.Tx {
		tx, err := d.ConvertTx(raw)
		if err != nil {
			return model.Block{}, fmt.Errorf("block %s: %w", src.Hash, err)
		}
		block.Txs = append(block.Txs, tx)
	}
	return block, nil
}

// BuildMsgTx serializes tx for relay. Witness entry i holds the signature
// script and witness stack of input i as packed by ConvertTx.
func (d *ScriptDecoder) BuildMsgTx(tx model.TxAux) (*wire.MsgTx, error) {
	msg := wire.NewMsgTx(wire.TxVersion)
	for i, in := range tx.Tx.Inputs {
		var raw []byte
		if i < len(tx.Witness) {
			raw = tx.Witness[i]
		}
		sigScript, stack, err := unpackWitness(raw)
		if err != nil {
			return nil, fmt.Errorf("input %d witness: %w", i, err)
		}
		outpoint := wire.NewOutPoint(&in.TxID, in.Index)
		msg.AddTxIn(wire.NewTxIn(outpoint, sigScript, stack))
	}
	for i, out := range tx.Tx.Outputs {
		script, err := d.PkScript(out.Address)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		value, err := safe.Int64(out.Value)
		if err != nil {
			return nil, fmt.Errorf("output %d value: %w", i, err)
		}
		msg.AddTxOut(wire.NewTxOut(value, script))
	}
	return msg, nil
}
