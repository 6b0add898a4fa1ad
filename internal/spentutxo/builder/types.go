package builder

import (
	"context"
	"time"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// PrevoutSource resolves previous outputs referenced by block inputs.
	PrevoutSource interface {
		FetchPrevout(ctx context.Context, outpoint model.Outpoint) (model.Prevout, error)
	}

	// CoinTimeResolver resolves the BIP-68 coin time for a creation height.
	CoinTimeResolver interface {
		Resolve(ctx context.Context, height uint32) (int64, error)
	}

	// Metrics records build outcomes and per-input resolution timings.
	Metrics interface {
		ObserveBuild(err error, inputs int, started time.Time)
		ObserveResolveInput(err error, started time.Time)
	}
)
