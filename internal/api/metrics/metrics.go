// Package metrics defines and registers all custom Prometheus metrics for the
// portal API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts authentication attempts.
// Labels:
//   - method: "local" or "google"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// UsersRegisteredTotal counts account creations.
// Label:
//   - role: the role assigned at creation, or "unset" for Google first logins
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// NotificationsCreatedTotal counts persisted notifications.
// Label:
//   - severity: "Info", "Warning", or "Alert"
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications persisted, by severity.",
	},
	[]string{"severity"},
)

// NotificationEmitErrorsTotal counts notification emissions that were dropped
// or failed to persist. Emission is best-effort, so this counter is the only
// place the loss is visible.
// Label:
//   - reason: "queue_full" or "insert_failed"
var NotificationEmitErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_emit_errors_total",
		Help:      "Total number of notification emissions lost, by reason.",
	},
	[]string{"reason"},
)

// NotificationQueueDepth tracks the number of notifications waiting in the
// background emitter channel.
var NotificationQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in the emitter queue.",
	},
)

// OAuthStateTotal counts OAuth state-parameter checks.
// Label:
//   - result: "issued", "valid", or "invalid"
var OAuthStateTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_state_total",
		Help:      "Total number of OAuth state parameters issued and verified.",
	},
	[]string{"result"},
)
