// Package metrics defines and registers the custom Prometheus metrics shared
// by the auth, device and user services. It is the single source of truth for
// metric names, labels and help strings.
//
// Metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mesh"

// ── Credential metrics ────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts calls to the validation endpoint.
// Label:
//   - valid: "true" or "false"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validations, by outcome.",
	},
	[]string{"valid"},
)

// ── Trust metrics ─────────────────────────────────────────────────────────────

// AuthzDecisionsTotal counts trust-header authorization decisions.
// Labels:
//   - check: "admin_only", "self_or_admin", "self_only", "authenticated" or "identified"
//   - decision: "allow", "forbidden" or "unauthenticated"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions on trust headers.",
	},
	[]string{"check", "decision"},
)

// ── Bridge metrics ────────────────────────────────────────────────────────────

// BridgeCallsTotal counts best-effort profile bridge deliveries.
// Label:
//   - outcome: "delivered", "failed" or "dropped"
var BridgeCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bridge_calls_total",
		Help:      "Total number of profile bridge deliveries, by outcome.",
	},
	[]string{"outcome"},
)

// BridgeQueueDepth tracks profile creations waiting for a worker.
var BridgeQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bridge_queue_depth",
		Help:      "Current number of profile creations pending in the bridge dispatcher.",
	},
)

// BridgeCallDuration measures a single peer profile-creation call.
var BridgeCallDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bridge_call_duration_seconds",
		Help:      "Duration of profile bridge calls to the user service.",
		Buckets:   prometheus.DefBuckets,
	},
)
