package model

// Utxo maps input references to the unspent outputs they point at.
type Utxo map[TxIn]TxOutAux

// Clone returns an independent copy of the UTXO set.
func (u Utxo) Clone() Utxo {
	out := make(Utxo, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Resolve returns the outputs referenced by inputs, skipping unknown references.
func (u Utxo) Resolve(inputs []TxIn) []TxOut {
	resolved := make([]TxOut, 0, len(inputs))
	for _, in := range inputs {
		if aux, ok := u[in]; ok {
			resolved = append(resolved, aux.Output)
		}
	}
	return resolved
}

// Apply removes spent inputs and inserts the transaction outputs in place.
func (u Utxo) Apply(tx TxAux) {
	for _, in := range tx.Tx.Inputs {
		delete(u, in)
	}
	for k, v := range tx.Outputs() {
		u[k] = v
	}
}

// Equal reports whether both sets hold the same entries.
func (u Utxo) Equal(o Utxo) bool {
	if len(u) != len(o) {
		return false
	}
	for k, v := range u {
		w, ok := o[k]
		if !ok || w.Output != v.Output || len(w.Distribution) != len(v.Distribution) {
			return false
		}
		for i := range v.Distribution {
			if v.Distribution[i] != w.Distribution[i] {
				return false
			}
		}
	}
	return true
}
