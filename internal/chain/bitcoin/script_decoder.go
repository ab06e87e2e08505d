package bitcoin

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/slotledger/internal/model"
)

// ScriptDecoder maps output scripts to addresses and back for one network.
type ScriptDecoder struct {
	params *chaincfg.Params
}

// NewScriptDecoder initializes a decoder using the params of the provided network.
func NewScriptDecoder(network string) (*ScriptDecoder, error) {
	params, err := chainParamsForNetwork(network)
	if err != nil {
		return nil, err
	}
	return &ScriptDecoder{params: params}, nil
}

// Address returns the owner of an output. Outputs without a standard address
// (OP_RETURN, bare multisig with several keys) are owned by the empty address.
func (d *ScriptDecoder) Address(vout btcjson.Vout) (model.Address, error) {
	if vout.ScriptPubKey.Address != "" {
		return model.Address(vout.ScriptPubKey.Address), nil
	}
	if len(vout.ScriptPubKey.Addresses) == 1 {
		return model.Address(vout.ScriptPubKey.Addresses[0]), nil
	}
	if vout.ScriptPubKey.Hex == "" {
		return "", nil
	}

	script, err := hex.DecodeString(vout.ScriptPubKey.Hex)
	if err != nil {
		return "", err
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, d.params)
	if err != nil {
		return "", err
	}
	if len(addrs) != 1 {
		return "", nil
	}
	return model.Address(addrs[0].EncodeAddress()), nil
}

// PkScript builds the output script paying to addr.
func (d *ScriptDecoder) PkScript(addr model.Address) ([]byte, error) {
	decoded, err := btcutil.DecodeAddress(string(addr), d.params)
	if err != nil {
		return nil, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if !decoded.IsForNet(d.params) {
		return nil, fmt.Errorf("address %q is not for %s", addr, d.params.Name)
	}
	return txscript.PayToAddrScript(decoded)
}

func chainParamsForNetwork(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "main", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}
