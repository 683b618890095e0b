// Package metrics defines Prometheus metrics for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersTotal counts order placement requests by final outcome.
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_orders_total",
		Help: "Order placement requests by symbol, action and outcome.",
	}, []string{"symbol", "action", "outcome"})

	// OrderQuantity observes submitted order quantities.
	OrderQuantity = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_order_quantity",
		Help:    "Submitted order quantity distribution.",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	}, []string{"symbol"})

	// OrderPlacementSeconds observes the latency of the full placement
	// chain (resolve, position read, submit).
	OrderPlacementSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gateway_order_placement_seconds",
		Help:    "Latency of the order placement chain.",
		Buckets: prometheus.DefBuckets,
	})

	// OrderFailuresTotal counts classified submission failures.
	OrderFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_order_failures_total",
		Help: "Order submission failures by cause.",
	}, []string{"cause"})

	// SessionErrorsTotal counts session-level failures.
	SessionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_session_errors_total",
		Help: "Session failures by cause.",
	}, []string{"cause"})

	// ReconciliationsTotal counts status reconciliations by reported status.
	ReconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_reconciliations_total",
		Help: "Order status reconciliations by reported status.",
	}, []string{"status"})

	// UnresolvedRollingCodesTotal counts rolling contracts that could not be
	// resolved to an actual code. Position lookups against these codes miss.
	UnresolvedRollingCodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_unresolved_rolling_codes_total",
		Help: "Rolling contract codes that fell back unresolved.",
	}, []string{"code"})

	// HTTPRequestsTotal counts HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPRequestSeconds observes HTTP request latency by route.
	HTTPRequestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_http_request_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
