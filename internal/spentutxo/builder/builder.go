// Package builder assembles the spent-UTXO record set for a decoded block.
package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/block"
	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/model"
	"github.com/goodnatureofminers/spentutxo7000-backend/pkg/workerpool"
)

const defaultWorkerCount = 8

// Builder resolves every non-coinbase input of a decoded block into a
// SpentUtxoRecord. The build is all-or-nothing: the first unrecoverable
// resolution failure cancels remaining work and no partial set is returned.
type Builder struct {
	source      PrevoutSource
	coinTime    CoinTimeResolver
	metrics     Metrics
	logger      *zap.Logger
	workerCount int
}

// New constructs a Builder. A workerCount of zero or less selects the default.
func New(source PrevoutSource, coinTime CoinTimeResolver, metrics Metrics, logger *zap.Logger, workerCount int) *Builder {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &Builder{
		source:      source,
		coinTime:    coinTime,
		metrics:     metrics,
		logger:      logger.Named("builder"),
		workerCount: workerCount,
	}
}

// job pins one input to a fixed slot of the result slice so the output order
// matches input encounter order regardless of resolution completion order.
type job struct {
	slot     int
	outpoint model.Outpoint
}

// Build resolves all spendable inputs of the block, in block transaction
// order then per-transaction input order, skipping the coinbase input.
func (b *Builder) Build(ctx context.Context, msg *wire.MsgBlock) (records []model.SpentUtxoRecord, err error) {
	started := time.Now()

	jobs := collectJobs(msg)
	defer func() {
		b.metrics.ObserveBuild(err, len(jobs), started)
	}()

	b.logger.Info("building spent-UTXO set",
		zap.Int("transactions", len(msg.Transactions)),
		zap.Int("inputs", len(jobs)),
	)

	records = make([]model.SpentUtxoRecord, len(jobs))
	err = workerpool.Process(ctx, b.workerCount, jobs, func(ctx context.Context, j job) error {
		record, resolveErr := b.resolveInput(ctx, j.outpoint)
		if resolveErr != nil {
			return resolveErr
		}
		records[j.slot] = record
		return nil
	}, func() {
		b.logger.Warn("resolution failed, canceling in-flight lookups")
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (b *Builder) resolveInput(ctx context.Context, outpoint model.Outpoint) (record model.SpentUtxoRecord, err error) {
	started := time.Now()
	defer func() {
		b.metrics.ObserveResolveInput(err, started)
	}()

	prevout, err := b.source.FetchPrevout(ctx, outpoint)
	if err != nil {
		return model.SpentUtxoRecord{}, fmt.Errorf("resolve input %s: %w", outpoint, err)
	}

	coinTime, err := b.coinTime.Resolve(ctx, prevout.Height)
	if err != nil {
		return model.SpentUtxoRecord{}, fmt.Errorf("coin time for input %s at height %d: %w",
			outpoint, prevout.Height, err)
	}

	return model.SpentUtxoRecord{
		Outpoint:       outpoint,
		TxOut:          prevout.Out,
		IsCoinbase:     prevout.IsCoinbase,
		CreationHeight: prevout.Height,
		CreationTime:   coinTime,
	}, nil
}

// collectJobs enumerates spendable inputs in encounter order. The coinbase
// input of the first transaction is skipped; so is any input carrying the
// coinbase outpoint shape, since it references no real previous output.
func collectJobs(msg *wire.MsgBlock) []job {
	jobs := make([]job, 0)
	for _, tx := range msg.Transactions {
		for _, in := range tx.TxIn {
			if block.IsCoinbaseInput(in) {
				continue
			}
			jobs = append(jobs, job{
				slot: len(jobs),
				outpoint: model.Outpoint{
					TxID: in.PreviousOutPoint.Hash.String(),
					Vout: in.PreviousOutPoint.Index,
				},
			})
		}
	}
	return jobs
}

type nopMetrics struct{}

func (nopMetrics) ObserveBuild(error, int, time.Time)   {}
func (nopMetrics) ObserveResolveInput(error, time.Time) {}
