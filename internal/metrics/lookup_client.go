// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spentutxo7000",
		Subsystem: "lookup_client",
		Name:      "operations_total",
		Help:      "Count of lookup source operations.",
	}, []string{"operation", "source", "status"})
	lookupRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spentutxo7000",
		Subsystem: "lookup_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of lookup source operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "source", "status"})
)

// LookupClient tracks metrics for calls to a previous-output/timestamp
// lookup source.
type LookupClient struct {
	source string
}

// NewLookupClient constructs a metrics collector for one lookup source.
func NewLookupClient(source string) *LookupClient {
	if source == "" {
		source = "unknown"
	}
	return &LookupClient{source: source}
}

// Observe records a single lookup call outcome and duration.
func (m LookupClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	lookupRequestsTotal.WithLabelValues(operation, m.source, status).Inc()
	lookupRequestDuration.WithLabelValues(operation, m.source, status).Observe(time.Since(started).Seconds())
}
