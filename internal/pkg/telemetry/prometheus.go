package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Account and transfer metrics
var (
	AccountsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accounts_created_total",
			Help: "Total number of accounts created",
		},
	)

	LedgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total number of ledger operations",
		},
		[]string{"operation", "status"}, // operation: deposit, withdraw, transfer; status: success, error
	)

	TransferAmountHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transfer_amount_minor_units",
			Help:    "Distribution of transfer amounts in minor currency units",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
		},
	)

	AccountBalancesHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "account_balances_minor_units",
			Help:    "Distribution of account balances in minor currency units",
			Buckets: []float64{0, 1000, 5000, 10000, 50000, 100000, 500000, 1000000, 5000000},
		},
	)

	ActiveAccountsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "accounts_active_total",
			Help: "Current number of open accounts in the system",
		},
	)
)

// Two-phase-commit metrics
var (
	TransferStateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_state_transitions_total",
			Help: "Total number of transaction state transitions",
		},
		[]string{"from", "to"},
	)

	RecoverySweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recovery_sweep_duration_seconds",
			Help:    "Duration of a recovery sweep pass",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sweep"}, // pending, applied, cancel
	)

	RecoveryStuckTransactions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recovery_stuck_transactions",
			Help: "Number of transactions recovered or canceled during the last sweep",
		},
		[]string{"state"},
	)

	SequenceAllocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sequence_allocations_total",
			Help: "Total number of IDs allocated per collection",
		},
		[]string{"collection"},
	)
)

// Messaging metrics
var (
	EventsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Total number of events dropped before reaching the broker",
		},
		[]string{"reason"},
	)

	EventsPublishErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_publish_errors_total",
			Help: "Total number of event publishing errors",
		},
		[]string{"reason"},
	)
)

// Runtime metrics
var (
	GoroutinesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "go_goroutines_current",
			Help: "Current number of goroutines",
		},
	)

	MemoryUsageGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "go_memory_usage_bytes",
			Help: "Memory usage in bytes",
		},
		[]string{"type"}, // heap, stack, sys
	)

	UptimeGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "application_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	GCPauseGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "go_gc_pause_seconds",
			Help: "Duration of the most recent garbage collection pause in seconds",
		},
	)
)

var processStart = time.Now()

// UpdateSystemMetrics refreshes goroutine, memory and GC-pause gauges.
// Called on every /prometheus scrape and, continuously, from
// StartRuntimeCollector.
func UpdateSystemMetrics() {
	GoroutinesGauge.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	MemoryUsageGauge.WithLabelValues("heap").Set(float64(m.HeapInuse))
	MemoryUsageGauge.WithLabelValues("stack").Set(float64(m.StackInuse))
	MemoryUsageGauge.WithLabelValues("sys").Set(float64(m.Sys))

	if m.NumGC > 0 {
		lastPause := m.PauseNs[(m.NumGC+255)%256]
		GCPauseGauge.Set(float64(lastPause) / float64(time.Second))
	}

	UptimeGauge.Set(time.Since(processStart).Seconds())
}

// StartRuntimeCollector refreshes the runtime gauges on a fixed interval
// until ctx is canceled, so they stay current between scrapes instead of
// only updating when something happens to hit /prometheus.
func StartRuntimeCollector(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			UpdateSystemMetrics()
		case <-ctx.Done():
			return
		}
	}
}

// RecordAccountCreation records a new account creation.
func RecordAccountCreation() {
	AccountsCreatedTotal.Inc()
}

// RecordLedgerOperation records a ledger operation outcome.
func RecordLedgerOperation(operation, status string) {
	LedgerOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordTransferAmount records the amount of a transfer for distribution analysis.
func RecordTransferAmount(amount float64) {
	TransferAmountHistogram.Observe(amount)
}

// RecordAccountBalance records an account balance for distribution analysis.
func RecordAccountBalance(balance float64) {
	AccountBalancesHistogram.Observe(balance)
}

// UpdateActiveAccounts updates the count of open accounts.
func UpdateActiveAccounts(count float64) {
	ActiveAccountsGauge.Set(count)
}

// RecordStateTransition records a transaction moving from one state to another.
func RecordStateTransition(from, to string) {
	TransferStateTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordSweepDuration records how long a recovery sweep pass took.
func RecordSweepDuration(sweep string, seconds float64) {
	RecoverySweepDuration.WithLabelValues(sweep).Observe(seconds)
}

// RecordStuckTransactions records how many transactions a sweep touched.
func RecordStuckTransactions(state string, count float64) {
	RecoveryStuckTransactions.WithLabelValues(state).Set(count)
}

// RecordSequenceAllocation records an ID allocation for a collection.
func RecordSequenceAllocation(collection string) {
	SequenceAllocationsTotal.WithLabelValues(collection).Inc()
}

// RecordEventDropped records an event that never reached the broker.
func RecordEventDropped(reason string) {
	EventsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordEventPublishingError records an event publish failure.
func RecordEventPublishingError(reason string) {
	EventsPublishErrorsTotal.WithLabelValues(reason).Inc()
}
