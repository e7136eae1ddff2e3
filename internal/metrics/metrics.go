// Package metrics registers the Prometheus instruments of the admin
// surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	BatchesIngested prometheus.Counter
	RowsIngested    prometheus.Counter
	IngestFailures  prometheus.Counter
	AuditFailures   prometheus.Counter

	CacheEvictions        prometheus.Counter
	CacheEvictionFailures prometheus.Counter
	CacheFlushes          prometheus.Counter

	GrantsTotal  *prometheus.CounterVec
	RevokesTotal prometheus.Counter
}

// New creates and registers the metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BatchesIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_match_batches_ingested_total",
			Help: "Match batches durably appended to the match log",
		}),
		RowsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_match_rows_ingested_total",
			Help: "Per-player match rows durably appended",
		}),
		IngestFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_match_ingest_failures_total",
			Help: "Match batches rejected by the durable append",
		}),
		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_audit_failures_total",
			Help: "Best-effort participant IP audit calls that failed",
		}),

		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_cache_evictions_total",
			Help: "Leaderboard cache keys evicted",
		}),
		CacheEvictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_cache_eviction_failures_total",
			Help: "Leaderboard cache evictions that failed (logged, not fatal)",
		}),
		CacheFlushes: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_cache_flushes_total",
			Help: "Whole-cache flushes requested by operators",
		}),

		GrantsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_item_grants_total",
			Help: "Inventory grant attempts by outcome",
		}, []string{"outcome"}),
		RevokesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "admin_item_revokes_total",
			Help: "Inventory revokes processed",
		}),
	}
}
