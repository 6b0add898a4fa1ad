package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetcherBuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spentutxo7000",
		Subsystem: "fetcher",
		Name:      "build_total",
		Help:      "Count of spent-UTXO set builds.",
	}, []string{"status"})

	fetcherBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spentutxo7000",
		Subsystem: "fetcher",
		Name:      "build_duration_seconds",
		Help:      "Duration of building the spent-UTXO set for one block.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 0.1s..~14min
	}, []string{"status"})

	fetcherBuildInputs = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "spentutxo7000",
		Subsystem: "fetcher",
		Name:      "build_inputs",
		Help:      "Number of spendable inputs resolved per block.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16), // 1..32768
	})

	fetcherResolveInputDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spentutxo7000",
		Subsystem: "fetcher",
		Name:      "resolve_input_duration_seconds",
		Help:      "Duration of resolving a single input to a spent-UTXO record.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	fetcherCoinTimeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spentutxo7000",
		Subsystem: "fetcher",
		Name:      "coin_time_resolutions_total",
		Help:      "Count of coin-time resolutions, split by cache outcome.",
	}, []string{"status", "cache"})

	fetcherCoinTimeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spentutxo7000",
		Subsystem: "fetcher",
		Name:      "coin_time_resolution_duration_seconds",
		Help:      "Duration of coin-time resolutions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status", "cache"})
)

// Fetcher tracks metrics for the spent-UTXO builder pipeline.
type Fetcher struct{}

// NewFetcher constructs a metrics collector for the fetcher pipeline.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// ObserveBuild records the outcome of one all-or-nothing block build.
func (m Fetcher) ObserveBuild(err error, inputs int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	fetcherBuildTotal.WithLabelValues(status).Inc()
	fetcherBuildDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	fetcherBuildInputs.Observe(float64(inputs))
}

// ObserveResolveInput records the resolution of a single input.
func (m Fetcher) ObserveResolveInput(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	fetcherResolveInputDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveResolve records one coin-time resolution and whether the per-run
// cache served it.
func (m Fetcher) ObserveResolve(err error, cached bool, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	cache := "miss"
	if cached {
		cache = "hit"
	}

	fetcherCoinTimeTotal.WithLabelValues(status, cache).Inc()
	fetcherCoinTimeDuration.WithLabelValues(status, cache).Observe(time.Since(started).Seconds())
}
