// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moviematch"

// Join outcomes.
const (
	JoinOK          = "ok"
	JoinNotJoinable = "not_joinable"
	JoinFull        = "full"
	JoinThrottled   = "throttled"
)

var (
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Sessions created.",
	})

	SessionCodeConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_code_conflicts_total",
		Help:      "Share code draws rejected because a live session holds the code.",
	})

	JoinAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_join_attempts_total",
		Help:      "Join attempts by outcome.",
	}, []string{"outcome"})

	SwipesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "swipes_recorded_total",
		Help:      "Swipes recorded by action.",
	}, []string{"action"})

	MatchChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "match_checks_total",
		Help:      "Match checks by result: none, created or existing.",
	}, []string{"result"})

	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_requests_total",
		Help:      "Outbound catalog requests by result.",
	}, []string{"endpoint", "result"})

	CatalogBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_breaker_state",
		Help:      "Catalog circuit breaker state (0 closed, 1 half-open, 2 open).",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Match check results.
const (
	MatchNone     = "none"
	MatchCreated  = "created"
	MatchExisting = "existing"
)
