package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Evently
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Auth/session Metrics
	AuthOperationsTotal  prometheus.CounterVec
	SessionsSettledTotal prometheus.Counter
	GuardDecisionsTotal  prometheus.CounterVec

	// Business Metrics
	TicketsSoldTotal     prometheus.Counter
	PurchasesBlockedTotal prometheus.CounterVec
	EventsCreatedTotal   prometheus.Counter
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evently_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evently_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "evently_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		AuthOperationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evently_auth_operations_total",
				Help: "Auth operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		SessionsSettledTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "evently_sessions_settled_total",
				Help: "Session views settled from session-change events",
			},
		),
		GuardDecisionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evently_guard_decisions_total",
				Help: "Route guard decisions by outcome",
			},
			[]string{"decision"},
		),

		TicketsSoldTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "evently_tickets_sold_total",
				Help: "Tickets sold across all events",
			},
		),
		PurchasesBlockedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evently_purchases_blocked_total",
				Help: "Purchases rejected, by reason",
			},
			[]string{"reason"},
		),
		EventsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "evently_events_created_total",
				Help: "Events created by organizers",
			},
		),
	}
}
