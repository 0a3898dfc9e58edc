// Package metrics defines and registers all custom Prometheus metrics for the
// Auvet authentication API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auvet_auth"

// RegistrationsTotal counts registration attempts.
// Labels:
//   - user_type: "tutor" or "employee"
//   - result: "ok" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by user type and result.",
	},
	[]string{"user_type", "result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts token validation calls.
// Label:
//   - result: "ok" or "error"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validation calls, by result.",
	},
	[]string{"result"},
)

// LoginDuration measures the end-to-end login latency, dominated by the
// password hash verification and the user lookup.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login requests from bind to response.",
		Buckets:   prometheus.DefBuckets,
	},
)

// AuthEventsRecordedTotal counts audit-trail writes performed by the
// dispatcher workers.
// Label:
//   - result: "ok" or "error"
var AuthEventsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_recorded_total",
		Help:      "Total number of audit events written, by result.",
	},
	[]string{"result"},
)
