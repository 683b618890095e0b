// Package audit records order placement outcomes for later inspection and
// export.
package audit

import (
	"context"
	"time"
)

// Record is one order placement outcome.
type Record struct {
	ID           int64     `json:"id"`
	Symbol       string    `json:"symbol"`
	Action       string    `json:"action"`
	Quantity     int       `json:"quantity"`
	Status       string    `json:"status"`
	OrderID      string    `json:"order_id,omitempty"`
	SeqNo        string    `json:"seqno,omitempty"`
	OrdNo        string    `json:"ordno,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Symbol string
	Action string
	Status string
	From   time.Time
	To     time.Time
	Limit  int // defaults to 100, capped at 1000
	Offset int
}

// Store persists audit records.
type Store interface {
	// Insert appends a record, assigning its ID and CreatedAt when unset.
	Insert(ctx context.Context, record *Record) error

	// Query returns records matching the filter, newest first.
	Query(ctx context.Context, filter Filter) ([]Record, error)

	// Close releases the store.
	Close() error
}
