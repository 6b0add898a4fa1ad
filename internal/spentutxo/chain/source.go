// Package chain defines the lookup contract shared between spent-UTXO
// resolution components and the error taxonomy its implementations report.
package chain

import (
	"context"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
)

// Source provides the chain data needed to resolve spent outputs.
// Implementations are read-only and idempotent from the caller's
// perspective; retry policy for transient failures belongs to them.
type Source interface {
	// FetchPrevout returns the output referenced by the outpoint together
	// with its confirming height and coinbase flag.
	FetchPrevout(ctx context.Context, outpoint model.Outpoint) (model.Prevout, error)
	// FetchBlockTimestamp returns the header timestamp of the block at the
	// given height, in unix seconds.
	FetchBlockTimestamp(ctx context.Context, height uint32) (int64, error)
}
