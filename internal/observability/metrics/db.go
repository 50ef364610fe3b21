package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const dbSubsystem = "db"

func poolGauge(name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: dbSubsystem,
		Name:      name,
		Help:      help,
	})
}

var (
	DBPoolAcquiredConnections = poolGauge("pool_acquired_connections", "Connections currently checked out of the pool")
	DBPoolIdleConnections     = poolGauge("pool_idle_connections", "Idle connections held by the pool")
	DBPoolMaxConnections      = poolGauge("pool_max_connections", "Configured pool size")
	DBPoolTotalConnections    = poolGauge("pool_total_connections", "Open connections, idle or acquired")

	DBQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: dbSubsystem,
			Name:      "query_duration_seconds",
			Help:      "Repository query latency by operation and table",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 3},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: dbSubsystem,
			Name:      "query_errors_total",
			Help:      "Failed repository queries by operation, table and Go error type",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: dbSubsystem,
			Name:      "retry_attempts_total",
			Help:      "Retries of transient PostgreSQL failures by operation",
		},
		[]string{"operation"},
	)

	DBMigrationsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: dbSubsystem,
			Name:      "migrations_applied_total",
			Help:      "Schema migrations applied by this process",
		},
	)
)
