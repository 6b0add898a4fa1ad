// Package model defines domain models for spent-UTXO resolution.
package model

import "fmt"

// Outpoint identifies a specific output of a specific transaction.
// It compares by value and is used as a lookup key.
type Outpoint struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

// String renders the outpoint in the conventional txid:vout form.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Vout)
}

// TxOut carries the economic content of a spent output.
type TxOut struct {
	// Value in satoshis.
	Value uint64 `json:"value"`
	// ScriptPubKey is the hex-encoded locking script.
	ScriptPubKey string `json:"script_pubkey"`
}

// Prevout is a previous output as resolved from a lookup source, together
// with the metadata of its confirming transaction.
type Prevout struct {
	Out        TxOut
	IsCoinbase bool
	Height     uint32
}

// SpentUtxoRecord is the unit of output produced per resolved input.
// It is created once by the builder and never mutated afterwards.
type SpentUtxoRecord struct {
	Outpoint Outpoint `json:"outpoint"`
	TxOut    TxOut    `json:"txout"`
	// IsCoinbase reports whether the spent output was created by a
	// coinbase transaction.
	IsCoinbase bool `json:"is_coinbase"`
	// CreationHeight is the height of the block that confirmed the output.
	CreationHeight uint32 `json:"creation_height"`
	// CreationTime is the BIP-68 coin time of the output: the median time
	// past of the block preceding its confirming block, in unix seconds.
	CreationTime int64 `json:"creation_time"`
}
