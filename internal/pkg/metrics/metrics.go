// Package metrics defines all custom Prometheus metrics for the VetPharmacy
// inventory API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "vetpharmacy"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "invalid_request", "locked", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens that failed verification.
// Label:
//   - reason: the rejection reason (e.g. "expired", "signature")
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of bearer tokens rejected during verification.",
	},
	[]string{"reason"},
)

// AuthorizationDenialsTotal counts requests stopped by a route policy.
// Labels:
//   - policy: "authenticated" or "role:<Role>"
//   - status: "401" or "403"
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by a route policy.",
	},
	[]string{"policy", "status"},
)

// ── Error metrics ─────────────────────────────────────────────────────────────

// ErrorsTotal counts errors rendered by the error normalizer.
// Label:
//   - kind: the error kind (e.g. "NotFound", "Unclassified")
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "errors_total",
		Help:      "Total number of error responses, by error kind.",
	},
	[]string{"kind"},
)

// ── Rehash metrics ────────────────────────────────────────────────────────────

// RehashQueueDepth tracks the number of jobs pending in each rehash worker channel.
var RehashQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "rehash_queue_depth",
		Help:      "Current number of password rehash jobs pending per worker.",
	},
	[]string{"worker_id"},
)

// RehashJobsTotal counts rehash jobs by outcome.
// Label:
//   - result: "persisted", "failed", or "dropped"
var RehashJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rehash_jobs_total",
		Help:      "Total number of password rehash jobs, by result.",
	},
	[]string{"result"},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// RecordsWrittenTotal counts successful writes.
// Labels:
//   - entity: "category", "product", or "user"
//   - op: "create", "update", or "delete"
var RecordsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "records_written_total",
		Help:      "Total number of successful record writes, by entity and operation.",
	},
	[]string{"entity", "op"},
)
