package metrics

import (
	"strconv"
	"time"
)

// Recorder provides methods for recording metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordOrder records an order placement outcome.
func (r *Recorder) RecordOrder(symbol, action, outcome string) {
	OrdersTotal.WithLabelValues(symbol, action, outcome).Inc()
}

// RecordOrderQuantity records a submitted order quantity.
func (r *Recorder) RecordOrderQuantity(symbol string, quantity int) {
	OrderQuantity.WithLabelValues(symbol).Observe(float64(quantity))
}

// RecordPlacementLatency records the latency of a placement chain.
func (r *Recorder) RecordPlacementLatency(d time.Duration) {
	OrderPlacementSeconds.Observe(d.Seconds())
}

// RecordOrderFailure records a classified submission failure.
func (r *Recorder) RecordOrderFailure(cause string) {
	OrderFailuresTotal.WithLabelValues(cause).Inc()
}

// RecordSessionError records a session-level failure.
func (r *Recorder) RecordSessionError(cause string) {
	SessionErrorsTotal.WithLabelValues(cause).Inc()
}

// RecordReconciliation records a status reconciliation.
func (r *Recorder) RecordReconciliation(status string) {
	ReconciliationsTotal.WithLabelValues(status).Inc()
}

// RecordUnresolvedRollingCode records a rolling code that fell back
// unresolved.
func (r *Recorder) RecordUnresolvedRollingCode(code string) {
	UnresolvedRollingCodesTotal.WithLabelValues(code).Inc()
}

// RecordHTTPRequest records one HTTP request.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}
