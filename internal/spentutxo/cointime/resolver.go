// Package cointime computes BIP-68 coin times: the median time past of the
// 11 blocks immediately preceding a confirming height.
package cointime

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/goodnatureofminers/spentutxo7000-backend/internal/spentutxo/chain"
)

const (
	// medianWindow is the number of preceding blocks in the BIP-68 window.
	medianWindow = 11
	// medianIndex is the true median position of the sorted 11-element window.
	medianIndex = 5
)

type (
	// TimestampSource provides block header timestamps by height.
	TimestampSource interface {
		FetchBlockTimestamp(ctx context.Context, height uint32) (int64, error)
	}

	// ResolverMetrics records resolution outcomes and cache effectiveness.
	ResolverMetrics interface {
		ObserveResolve(err error, cached bool, started time.Time)
	}
)

// Resolver memoizes coin times per height for the duration of one builder
// run. Coin time is a pure function of chain history, so a cached value is
// immutable once computed. The cache is never persisted.
type Resolver struct {
	source  TimestampSource
	metrics ResolverMetrics
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[uint32]int64
	group singleflight.Group
}

// NewResolver constructs a Resolver with an empty cache.
func NewResolver(source TimestampSource, metrics ResolverMetrics, logger *zap.Logger) *Resolver {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		source:  source,
		metrics: metrics,
		logger:  logger.Named("cointime"),
		cache:   make(map[uint32]int64),
	}
}

// Resolve returns the coin time for outputs confirmed at the given height:
// the median timestamp of the blocks at heights height-11 through height-1.
// Concurrent calls for the same height share a single computation.
func (r *Resolver) Resolve(ctx context.Context, height uint32) (coinTime int64, err error) {
	started := time.Now()
	cached := false
	defer func() {
		r.metrics.ObserveResolve(err, cached, started)
	}()

	if height < medianWindow {
		return 0, fmt.Errorf("height %d has fewer than %d preceding blocks: %w",
			height, medianWindow, chain.ErrInsufficientHistory)
	}

	if v, ok := r.lookup(height); ok {
		cached = true
		return v, nil
	}

	v, err, _ := r.group.Do(strconv.FormatUint(uint64(height), 10), func() (interface{}, error) {
		// A previous flight may have populated the cache between our miss
		// and acquiring the flight.
		if v, ok := r.lookup(height); ok {
			return v, nil
		}
		computed, computeErr := r.compute(ctx, height)
		if computeErr != nil {
			return int64(0), computeErr
		}
		r.store(height, computed)
		return computed, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (r *Resolver) compute(ctx context.Context, height uint32) (int64, error) {
	timestamps := make([]int64, medianWindow)

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < medianWindow; i++ {
		slot := i
		h := height - medianWindow + uint32(i)
		g.Go(func() error {
			ts, err := r.source.FetchBlockTimestamp(gCtx, h)
			if err != nil {
				return fmt.Errorf("timestamp at height %d: %w", h, err)
			}
			timestamps[slot] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// Total order on timestamp value alone. Equal timestamps from different
	// heights carry no height-based ordering, matching BIP-68.
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	median := timestamps[medianIndex]
	r.logger.Debug("computed median time past",
		zap.Uint32("height", height),
		zap.Int64s("sorted_timestamps", timestamps),
		zap.Int64("median", median),
	)
	return median, nil
}

func (r *Resolver) lookup(height uint32) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.cache[height]
	return v, ok
}

func (r *Resolver) store(height uint32, coinTime int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[height] = coinTime
}

type nopMetrics struct{}

func (nopMetrics) ObserveResolve(error, bool, time.Time) {}
