package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperationLatency records document-store operation latency by
	// collection and operation.
	StoreOperationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scrawl_store_operation_latency_seconds",
		Help:    "Document store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "operation"})

	// StoreBusyTotal counts operations rejected by lock-wait timeout.
	StoreBusyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrawl_store_busy_total",
		Help: "Total number of operations rejected because a collection lock could not be acquired in time",
	}, []string{"collection"})

	// StoreInconsistencies counts partial side effects that need manual
	// reconciliation.
	StoreInconsistencies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scrawl_store_inconsistencies_total",
		Help: "Total number of landed writes whose derived-counter sync failed",
	}, []string{"collection", "operation"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics middleware. Repeated
// calls return the same instance, since the default Prometheus registry
// rejects duplicate registration.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// TrackStoreOperation returns a function that records the operation's
// latency when called, for use with defer.
func TrackStoreOperation(collection, operation string) func() {
	start := time.Now()
	return func() {
		StoreOperationLatency.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
	}
}
