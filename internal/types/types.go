// Package types defines shared types used across the gateway.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction represents the side of an order or position.
type Direction int

const (
	DirectionBuy Direction = iota
	DirectionSell
)

func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "Buy"
	case DirectionSell:
		return "Sell"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	if d == DirectionBuy {
		return DirectionSell
	}
	return DirectionBuy
}

// ParseDirection parses an exchange-reported direction value.
// The second return value is false for anything other than Buy/Sell.
func ParseDirection(raw string) (Direction, bool) {
	switch raw {
	case "Buy":
		return DirectionBuy, true
	case "Sell":
		return DirectionSell, true
	default:
		return DirectionBuy, false
	}
}

// Action is a requested order action from the calling layer.
type Action string

const (
	ActionLongEntry  Action = "long_entry"
	ActionLongExit   Action = "long_exit"
	ActionShortEntry Action = "short_entry"
	ActionShortExit  Action = "short_exit"
)

// Valid reports whether the action is one of the four accepted values.
func (a Action) Valid() bool {
	switch a {
	case ActionLongEntry, ActionLongExit, ActionShortEntry, ActionShortExit:
		return true
	default:
		return false
	}
}

// IsEntry reports whether the action opens a position.
func (a Action) IsEntry() bool {
	return a == ActionLongEntry || a == ActionShortEntry
}

// IsExit reports whether the action closes a position.
func (a Action) IsExit() bool {
	return a == ActionLongExit || a == ActionShortExit
}

// Status represents the exchange-reported state of an order.
type Status string

const (
	StatusPendingSubmit Status = "PendingSubmit"
	StatusPreSubmitted  Status = "PreSubmitted"
	StatusSubmitted     Status = "Submitted"
	StatusPartFilled    Status = "PartFilled"
	StatusFilled        Status = "Filled"
	StatusCancelled     Status = "Cancelled"
	StatusFailed        Status = "Failed"
	StatusInactive      Status = "Inactive"

	// StatusUnknown marks a raw status value the gateway does not recognize.
	// The raw value is preserved on the fill report.
	StatusUnknown Status = "Unknown"

	// Report-level statuses. These never come from the exchange: no_trade is
	// returned when there is no order to reconcile, error when the refresh
	// call itself failed.
	StatusNoTrade Status = "no_trade"
	StatusError   Status = "error"
)

// ParseStatus maps a raw exchange status onto the closed enum.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusPendingSubmit, StatusPreSubmitted, StatusSubmitted,
		StatusPartFilled, StatusFilled, StatusCancelled, StatusFailed,
		StatusInactive:
		return Status(raw)
	default:
		return StatusUnknown
	}
}

// Final reports whether the order can no longer change at the exchange.
func (s Status) Final() bool {
	switch s {
	case StatusFilled, StatusCancelled, StatusFailed, StatusInactive:
		return true
	default:
		return false
	}
}

// Contract is an immutable descriptor of a tradable futures contract.
type Contract struct {
	Symbol         string          `json:"symbol"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	DeliveryMonth  string          `json:"delivery_month"`
	Exchange       string          `json:"exchange"`
	UnderlyingKind string          `json:"underlying_kind"`
	Unit           int             `json:"unit"`
	LimitUp        decimal.Decimal `json:"limit_up"`
	LimitDown      decimal.Decimal `json:"limit_down"`
	Reference      decimal.Decimal `json:"reference"`
}

// Rolling reports whether the contract is a continuous-maturity alias
// (e.g. MXFR1). Rolling contracts must be resolved to an actual code before
// position lookups.
func (c Contract) Rolling() bool {
	return c.Code == c.Symbol
}

// Position is a read-only view of exchange-held exposure for one contract
// code. Quantity is always positive; Direction carries the sign.
type Position struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Direction Direction       `json:"-"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LastPrice decimal.Decimal `json:"last_price"`
	Pnl       decimal.Decimal `json:"pnl"`
}

// Deal is a single fill reported by the exchange.
type Deal struct {
	Seq      string          `json:"seq"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Ts       int64           `json:"ts"`
}

// OrderState is the status snapshot carried on an order handle. It is
// refreshed in place by Session.RefreshStatus.
type OrderState struct {
	Status         Status
	RawStatus      string
	StatusCode     string
	Msg            string
	OrderQuantity  int
	DealQuantity   int
	CancelQuantity int
	Deals          []Deal
}

// OrderHandle holds the brokerage-assigned identifiers of a submitted order
// together with its last known state.
type OrderHandle struct {
	ID          string
	SeqNo       string
	OrdNo       string
	Code        string
	Direction   Direction
	Quantity    int
	SubmittedAt time.Time
	State       OrderState
}

// OrderPlan is the fully resolved instruction ready for submission:
// direction plus exact quantity, reversal already folded in.
type OrderPlan struct {
	Direction Direction
	Quantity  int
}

// FillReport is the derived, read-only reconciliation snapshot. It is
// recomputed on every query and never cached.
type FillReport struct {
	Status         Status          `json:"status"`
	RawStatus      string          `json:"raw_status,omitempty"`
	StatusCode     string          `json:"status_code,omitempty"`
	Msg            string          `json:"msg,omitempty"`
	OrderID        string          `json:"order_id,omitempty"`
	SeqNo          string          `json:"seqno,omitempty"`
	OrdNo          string          `json:"ordno,omitempty"`
	OrderQuantity  int             `json:"order_quantity"`
	DealQuantity   int             `json:"deal_quantity"`
	CancelQuantity int             `json:"cancel_quantity"`
	FillAvgPrice   decimal.Decimal `json:"fill_avg_price"`
	Deals          []Deal          `json:"deals"`
	Error          string          `json:"error,omitempty"`
}
