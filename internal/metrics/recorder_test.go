package metrics

import (
	"testing"
	"time"
)

// The counters are package-level promauto collectors; these tests verify the
// label plumbing does not panic rather than reading values back.

func TestRecorder_RecordOrder(t *testing.T) {
	r := NewRecorder()

	r.RecordOrder("MXF202601", "long_entry", "success")
	r.RecordOrder("MXF202601", "long_exit", "no_action")
	r.RecordOrder("TXF202601", "short_entry", "failed")
}

func TestRecorder_RecordQuantitiesAndLatency(t *testing.T) {
	r := NewRecorder()

	r.RecordOrderQuantity("MXF202601", 8)
	r.RecordPlacementLatency(120 * time.Millisecond)
}

func TestRecorder_RecordFailures(t *testing.T) {
	r := NewRecorder()

	r.RecordOrderFailure("timeout")
	r.RecordOrderFailure("contract not exist")
	r.RecordSessionError("authentication")
}

func TestRecorder_RecordReconciliation(t *testing.T) {
	r := NewRecorder()

	r.RecordReconciliation("Filled")
	r.RecordReconciliation("error")
	r.RecordReconciliation("no_trade")
}

func TestRecorder_RecordUnresolvedRollingCode(t *testing.T) {
	r := NewRecorder()
	r.RecordUnresolvedRollingCode("MXFR1")
}

func TestRecorder_RecordHTTPRequest(t *testing.T) {
	r := NewRecorder()
	r.RecordHTTPRequest("POST", "/order", 200, 35*time.Millisecond)
	r.RecordHTTPRequest("GET", "/symbols", 503, 5*time.Millisecond)
}
