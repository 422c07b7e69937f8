// Package metrics defines and registers the custom Prometheus metrics of the
// academic portal API. Metrics are registered with the default registry on
// package initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "academic"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by result.",
	},
	[]string{"operation", "result"},
)

// PasswordResetsTotal counts reset lifecycle events.
// Labels:
//   - stage: "requested" or "redeemed"
//   - result: "success" or "failure"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset requests and redemptions.",
	},
	[]string{"stage", "result"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of HTTP requests rejected with 429.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailsSentTotal counts delivery attempts of transactional email.
// Label:
//   - result: "sent" or "failed"
var MailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_sent_total",
		Help:      "Total number of transactional emails handed to the mail backend.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks pending messages in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MailDeliveryDuration measures a single send against the mail backend.
var MailDeliveryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_delivery_duration_seconds",
		Help:      "Duration of a single email delivery.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Request metrics ───────────────────────────────────────────────────────────

// RequestsCreatedTotal counts inquiry submissions.
// Label:
//   - class_standard: "10th" or "12th"
var RequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of inquiry requests submitted, by class standard.",
	},
	[]string{"class_standard"},
)
