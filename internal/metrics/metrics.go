// Package metrics defines and registers all custom Prometheus metrics for
// the CareBridge practice API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry on
// package import; expose them via promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "practice"

// ── Invite metrics ────────────────────────────────────────────────────────────

// InvitesCreatedTotal counts minted invites.
// Label:
//   - kind: "client" or "practitioner"
var InvitesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invites_created_total",
		Help:      "Total number of invites minted, by kind.",
	},
	[]string{"kind"},
)

// InviteVerificationsTotal counts invite verification attempts.
// Label:
//   - result: "ok", "not_found", "expired", "already_used", "code_mismatch"
var InviteVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invite_verifications_total",
		Help:      "Total number of invite verification attempts, by result.",
	},
	[]string{"result"},
)

// ── Assignment metrics ────────────────────────────────────────────────────────

// AssignmentsTotal counts practitioner selections performed by the rotation
// selector.
// Label:
//   - phase: "initial" (request creation) or "reassign" (after a decline)
var AssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_total",
		Help:      "Total number of practitioner assignments, by phase.",
	},
	[]string{"phase"},
)

// RotationConflictsTotal counts conditional rotation-index increments lost
// to a concurrent selection and retried.
var RotationConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rotation_conflicts_total",
		Help:      "Total number of rotation increments retried after a concurrent update.",
	},
)

// RequestsExhaustedTotal counts requests that returned to unassigned after
// every remaining practitioner declined.
var RequestsExhaustedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_exhausted_total",
		Help:      "Total number of requests left unassigned after the candidate pool emptied.",
	},
)

// ── Application metrics ───────────────────────────────────────────────────────

// ApplicationsSubmittedTotal counts practitioner applications received.
var ApplicationsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "applications_submitted_total",
		Help:      "Total number of practitioner applications submitted.",
	},
)

// ApprovalEventsTotal counts reactive approval-event handling decisions.
// Label:
//   - result: "sent" (welcome email dispatched), "duplicate" (dedup or flag
//     already set), "skipped" (not a pending→approved edge)
var ApprovalEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "approval_events_total",
		Help:      "Total number of application change events handled, by result.",
	},
	[]string{"result"},
)
