package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Ledger metrics
	LedgerChangesApplied *prometheus.CounterVec
	LedgerChangeDuration prometheus.Histogram
	LedgerChangeErrors   *prometheus.CounterVec
	LedgerChangeAmount   prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "badbank_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "badbank_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),
		LedgerChangesApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "badbank_ledger_changes_applied_total",
				Help: "Total number of ledger changes applied by kind",
			},
			[]string{"kind"},
		),
		LedgerChangeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "badbank_ledger_change_duration_seconds",
			Help:    "Duration of ledger change operations",
			Buckets: prometheus.DefBuckets,
		}),
		LedgerChangeErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "badbank_ledger_change_errors_total",
				Help: "Total number of ledger change errors by type",
			},
			[]string{"error_type"},
		),
		LedgerChangeAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "badbank_ledger_change_amount",
			Help:    "Absolute amounts of ledger changes",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
	}
}
