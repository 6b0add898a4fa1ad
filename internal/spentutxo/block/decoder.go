// Package block decodes raw Bitcoin blocks and verifies their identity.
package block

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

var (
	// ErrMalformedBlock reports structurally invalid raw block bytes.
	ErrMalformedBlock = errors.New("malformed block")

	// ErrHashMismatch reports that a decoded block's identity does not match
	// the expected hash.
	ErrHashMismatch = errors.New("block hash mismatch")
)

// Decode parses raw bytes into a wire block. The whole buffer must be
// consumed; truncated or inconsistent structures fail with
// ErrMalformedBlock. The decoded block is a read-only view for callers.
func Decode(raw []byte) (*wire.MsgBlock, error) {
	r := bytes.NewReader(raw)

	msg := &wire.MsgBlock{}
	if err := msg.Deserialize(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after block", ErrMalformedBlock, r.Len())
	}
	if len(msg.Transactions) == 0 {
		return nil, fmt.Errorf("%w: block has no transactions", ErrMalformedBlock)
	}

	return msg, nil
}

// Encode serializes a block back to its wire representation. For any block
// produced by Decode the result is byte-identical to the original input.
func Encode(msg *wire.MsgBlock) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(msg.SerializeSize())
	if err := msg.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("serialize block: %w", err)
	}
	return buf.Bytes(), nil
}

// VerifyHash compares the block's canonical double-SHA256 header identity
// against the expected hex hash, case-insensitively.
func VerifyHash(msg *wire.MsgBlock, expected string) error {
	actual := msg.BlockHash().String()
	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return fmt.Errorf("%w: expected %s, actual %s", ErrHashMismatch, expected, actual)
	}
	return nil
}

// IsCoinbaseInput reports whether the input carries the coinbase outpoint
// shape (all-zero previous txid and maximum output index).
func IsCoinbaseInput(in *wire.TxIn) bool {
	prev := in.PreviousOutPoint
	return prev.Index == math.MaxUint32 && prev.Hash == zeroHash
}

var zeroHash chainhash.Hash
