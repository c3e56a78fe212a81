package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "inventory"
	metricsSubsystem = "ledger"
)

// Metrics holds the ledger's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	ordersTotal     *prometheus.CounterVec
	importRowsTotal *prometheus.CounterVec
	lockWaitSeconds prometheus.Histogram
	deletionsTotal  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ordersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "orders_total",
				Help:      "Order events processed by the engine.",
			},
			[]string{"source", "outcome"},
		),
		importRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "import_rows_total",
				Help:      "Bulk import rows by result.",
			},
			[]string{"result"},
		),
		lockWaitSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "lock_wait_seconds",
				Help:      "Time spent waiting for a product lock.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		deletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "product_deletions_total",
				Help:      "Product removals by outcome.",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.ordersTotal, m.importRowsTotal, m.lockWaitSeconds, m.deletionsTotal)
	return m
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}

func (m *Metrics) observeOrder(source string, err error) {
	if m == nil {
		return
	}
	m.ordersTotal.WithLabelValues(source, outcome(err)).Inc()
}

func (m *Metrics) observeImportRow(result string) {
	if m == nil {
		return
	}
	m.importRowsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) observeLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.lockWaitSeconds.Observe(d.Seconds())
}

func (m *Metrics) observeDeletion(err error) {
	if m == nil {
		return
	}
	m.deletionsTotal.WithLabelValues(outcome(err)).Inc()
}
