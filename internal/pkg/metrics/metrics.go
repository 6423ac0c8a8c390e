// Package metrics defines and registers the custom Prometheus metrics of the
// estimates API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; HTTP request metrics are added separately by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "estimates"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts token requests.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of token requests, by result.",
	},
	[]string{"result"},
)

// ── Estimate metrics ──────────────────────────────────────────────────────────

// EstimatesSavedTotal counts successful estimate upserts.
// Label:
//   - kind: "earnings", "revenue" or "growth"
var EstimatesSavedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saved_total",
		Help:      "Total number of user estimates saved, by kind.",
	},
	[]string{"kind"},
)

// EstimatesRejectedTotal counts estimate writes refused before reaching storage.
// Labels:
//   - kind: the estimate kind
//   - reason: "forbidden" or "invalid_periods"
var EstimatesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_total",
		Help:      "Total number of estimate writes rejected, by kind and reason.",
	},
	[]string{"kind", "reason"},
)

// ── Market data metrics ───────────────────────────────────────────────────────

// UpstreamFailuresTotal counts market-data provider failures.
// Label:
//   - op: "quote", "analyst", "earnings", "revenue", "growth" or "search"
var UpstreamFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_failures_total",
		Help:      "Total number of market-data provider failures, by operation.",
	},
	[]string{"op"},
)

// UpstreamDuration measures market-data provider latency.
// Label:
//   - op: the provider operation
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_duration_seconds",
		Help:      "Duration of market-data provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries waiting in each worker queue.",
	},
	[]string{"worker_id"},
)

// AuditWriteFailuresTotal counts audit entries the sink refused.
var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of audit entries that could not be written.",
	},
)
