// Package metrics provides Prometheus metrics for the kitchen core.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ExplosionsTotal counts explosion runs by status.
	ExplosionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_explosions_total",
			Help: "Total number of demand explosions",
		},
		[]string{"status"},
	)

	// ExplosionDuration tracks explosion duration.
	ExplosionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kitchen_explosion_duration_seconds",
			Help:    "Demand explosion duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	// SkippedReferencesTotal counts menus, recipes and ingredients that could not be resolved.
	SkippedReferencesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_explosion_skipped_references_total",
			Help: "Total number of unresolved references skipped during explosion",
		},
		[]string{"kind"},
	)

	// LedgerCommandsTotal counts ledger commands by command name and result.
	LedgerCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_ledger_commands_total",
			Help: "Total number of ledger commands applied",
		},
		[]string{"command", "result"},
	)

	// ConsumptionShortfallTotal counts consumptions that asked for more than was in stock.
	ConsumptionShortfallTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kitchen_consumption_shortfall_total",
			Help: "Total number of consumptions truncated to available stock",
		},
	)

	// ReorderAlertsTotal counts reorder checks by outcome.
	ReorderAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_reorder_alerts_total",
			Help: "Total number of reorder checks by outcome",
		},
		[]string{"outcome"},
	)

	// OutboxPending tracks intents waiting to be written to the document store.
	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kitchen_outbox_pending",
			Help: "Number of pending document writes",
		},
	)

	// OutboxWritesTotal counts document write attempts by result.
	OutboxWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_outbox_writes_total",
			Help: "Total number of document write attempts",
		},
		[]string{"kind", "result"},
	)

	// CircuitBreakerState exposes breaker state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kitchen_circuit_breaker_state",
			Help: "Circuit breaker state by name",
		},
		[]string{"name"},
	)
)

// RecordExplosion records metrics for an explosion run.
func RecordExplosion(duration time.Duration, status string) {
	ExplosionDuration.Observe(duration.Seconds())
	ExplosionsTotal.WithLabelValues(status).Inc()
}

// RecordSkippedReference records an unresolved menu, recipe or ingredient.
func RecordSkippedReference(kind string) {
	SkippedReferencesTotal.WithLabelValues(kind).Inc()
}

// RecordLedgerCommand records a ledger command outcome.
func RecordLedgerCommand(command, result string) {
	LedgerCommandsTotal.WithLabelValues(command, result).Inc()
}

// RecordShortfall records a truncated consumption.
func RecordShortfall() {
	ConsumptionShortfallTotal.Inc()
}

// RecordReorderCheck records the outcome of a reorder check.
func RecordReorderCheck(outcome string) {
	ReorderAlertsTotal.WithLabelValues(outcome).Inc()
}

// RecordOutboxWrite records a document write attempt.
func RecordOutboxWrite(kind, result string) {
	OutboxWritesTotal.WithLabelValues(kind, result).Inc()
}

// UpdateOutboxPending sets the pending intent gauge.
func UpdateOutboxPending(n int) {
	OutboxPending.Set(float64(n))
}

// UpdateCircuitBreakerState sets the breaker state gauge.
func UpdateCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
