// Package session provides brokerage session connectivity for order
// placement, position listing and contract lookup.
package session

import (
	"context"
	"errors"

	"github.com/chiehlin/taifex-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// ErrFamilyNotFound is returned by ListContracts when the brokerage catalog
// has no entry for the requested product family. Callers are expected to log
// and continue; a missing family must not abort listing the others.
var ErrFamilyNotFound = errors.New("futures family not found in catalog")

// PriceType represents the pricing mode of an order.
type PriceType string

const (
	PriceTypeMarket PriceType = "MKT"
	PriceTypeLimit  PriceType = "LMT"
)

// TimeInForce represents the order's time-in-force.
type TimeInForce string

const (
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceROD TimeInForce = "ROD"
	TimeInForceFOK TimeInForce = "FOK"
)

// OpenClose represents the open/close classification of a futures order.
type OpenClose string

const (
	// OpenCloseAuto lets the exchange classify the order against existing
	// positions.
	OpenCloseAuto OpenClose = "Auto"
	OpenCloseNew  OpenClose = "New"
	OpenCloseCover OpenClose = "Cover"
)

// OrderSpec describes an order to submit through the session.
type OrderSpec struct {
	Direction   types.Direction
	Quantity    int
	Price       decimal.Decimal // zero for market orders
	PriceType   PriceType
	TimeInForce TimeInForce
	OpenClose   OpenClose
}

// MarketIOC builds the gateway's standard order spec: market price,
// immediate-or-cancel, automatic open/close classification.
func MarketIOC(direction types.Direction, quantity int) OrderSpec {
	return OrderSpec{
		Direction:   direction,
		Quantity:    quantity,
		Price:       decimal.Zero,
		PriceType:   PriceTypeMarket,
		TimeInForce: TimeInForceIOC,
		OpenClose:   OpenCloseAuto,
	}
}

// Session is the capability interface over an authenticated brokerage
// session. Implementations serialize requests per account; callers make
// strictly sequential blocking calls.
type Session interface {
	// ListContracts returns all contracts of one product family.
	// Returns ErrFamilyNotFound when the family is absent from the catalog.
	ListContracts(ctx context.Context, family string) ([]types.Contract, error)

	// ListPositions returns the live positions of the trading account.
	ListPositions(ctx context.Context) ([]types.Position, error)

	// PlaceOrder submits a single order and returns its handle.
	PlaceOrder(ctx context.Context, contract types.Contract, spec OrderSpec) (*types.OrderHandle, error)

	// RefreshStatus re-reads the order's authoritative status from the
	// exchange, mutating the handle's state in place.
	RefreshStatus(ctx context.Context, handle *types.OrderHandle) error

	// Close releases the session.
	Close() error
}
