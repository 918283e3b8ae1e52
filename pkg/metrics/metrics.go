// Package metrics exposes Prometheus counters for the mutating operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExpensesCreated counts successfully committed expense creations,
	// labelled by split type.
	ExpensesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divvy_expenses_created_total",
		Help: "Number of expenses created, by split type.",
	}, []string{"split_type"})

	// ExpensesDeleted counts committed expense reversals.
	ExpensesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_expenses_deleted_total",
		Help: "Number of expenses soft-deleted and reversed.",
	})

	// SettlementsCreated counts recorded settlements.
	SettlementsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_settlements_created_total",
		Help: "Number of settlements recorded.",
	})

	// SettlementsConfirmed counts confirmed settlements.
	SettlementsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "divvy_settlements_confirmed_total",
		Help: "Number of settlements confirmed by the receiver.",
	})

	// TxFailures counts transactions rejected by the storage layer,
	// labelled by operation.
	TxFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "divvy_tx_failures_total",
		Help: "Number of atomic write transactions that failed to commit.",
	}, []string{"operation"})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
