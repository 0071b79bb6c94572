package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_pessoas_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// BackendRequests counts calls made to the people backend
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_pessoas_backend_requests_total",
			Help: "Number of requests sent to the people backend",
		},
		[]string{"operation", "status"},
	)

	// BackendDuration tracks backend call latency
	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "app_pessoas_backend_request_duration_seconds",
			Help:    "Duration of people backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CacheHits tracks reference cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_pessoas_cache_hits_total",
			Help: "Number of reference cache lookups by result",
		},
		[]string{"source", "result"},
	)

	// FormSubmissions tracks person form submissions by outcome
	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_pessoas_form_submissions_total",
			Help: "Number of person form submissions",
		},
		[]string{"mode", "outcome"},
	)

	// AutocompleteSearches tracks settled autocomplete lookups
	AutocompleteSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_pessoas_autocomplete_searches_total",
			Help: "Number of autocomplete searches issued after debounce",
		},
		[]string{"source", "outcome"},
	)

	// SessionEvents tracks login, logout, expiry and invalidation events
	SessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_pessoas_session_events_total",
			Help: "Number of session lifecycle events",
		},
		[]string{"event"},
	)

	// ActiveSessions tracks sessions currently held by this process
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_pessoas_active_sessions",
			Help: "Number of directories held for active sessions",
		},
	)

	// InFlightRequests tracks requests currently being served
	InFlightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_pessoas_in_flight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// AuditEvents tracks audit entries by how they were delivered
	AuditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_pessoas_audit_events_total",
			Help: "Number of audit entries by delivery outcome",
		},
		[]string{"outcome"},
	)
)
