package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// HTTP API
	// ============================================
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_rush_http_requests_total",
			Help: "Total number of API requests by route and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "token_rush_http_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// ============================================
	// Session / CSRF guard
	// ============================================
	GuardRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_rush_guard_rejections_total",
			Help: "Requests rejected by the session/CSRF guard",
		},
		[]string{"code"},
	)

	// ============================================
	// Custodial wallet provider
	// ============================================
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "token_rush_provider_request_duration_seconds",
			Help:    "Wallet provider request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_rush_provider_errors_total",
			Help: "Wallet provider calls that failed",
		},
		[]string{"operation", "status"},
	)

	// ============================================
	// Transfers
	// ============================================
	Transfers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_rush_transfers_total",
			Help: "Reward, penalty and withdraw outcomes",
		},
		[]string{"kind", "outcome"},
	)
)

// Transfer outcomes
const (
	OutcomeSubmitted = "submitted"
	OutcomeSkipped   = "skipped" // zero balance, nothing transferred
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)
