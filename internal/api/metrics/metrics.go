// Package metrics defines and registers all custom Prometheus metrics for
// the library auth service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library_auth"

// SubmissionsTotal counts finished form submissions.
// Labels:
//   - mode: "login", "signup", or "google"
//   - status: the terminal outcome ("success", "rejected", "failure", "cancelled")
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of auth submissions, by mode and terminal status.",
	},
	[]string{"mode", "status"},
)

// ProviderErrorsTotal counts identity-provider failures by mapped code.
// Label:
//   - code: "email_already_in_use", "invalid_credential", "popup_cancelled", "unknown"
var ProviderErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_errors_total",
		Help:      "Total number of identity provider call failures, by mapped code.",
	},
	[]string{"code"},
)

// ProfileWritesTotal counts profile document writes. Best-effort writes that
// fail after a successful account creation show up here as result="error"
// even though the submission itself reported success.
// Labels:
//   - op: "merge" or "create"
//   - result: "ok" or "error"
var ProfileWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_writes_total",
		Help:      "Total number of profile document writes, by operation and result.",
	},
	[]string{"op", "result"},
)

// LoginEventQueueDepth tracks the number of login events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var LoginEventQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "login_event_queue_depth",
		Help:      "Current number of login events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// SubmissionDuration measures how long one submission takes from validation
// to settlement, including remote provider and store calls.
// Label:
//   - mode: "login", "signup", or "google"
var SubmissionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "submission_duration_seconds",
		Help:      "Duration of auth submissions from validation to settlement.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"mode"},
)
