// Package paper provides a simulated brokerage session for paper trading.
package paper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chiehlin/taifex-gateway/internal/session"
	"github.com/chiehlin/taifex-gateway/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Config holds paper session configuration.
type Config struct {
	// MarkPrices maps contract code to the price used for simulated fills.
	// Codes without an entry fill at the contract's reference price.
	MarkPrices map[string]decimal.Decimal
}

// DefaultConfig returns default paper session config.
func DefaultConfig() Config {
	return Config{
		MarkPrices: map[string]decimal.Decimal{},
	}
}

// Session implements session.Session entirely in memory. Orders fill
// immediately and fully at the mark price, which is the closest sensible
// approximation of a market IOC order in a liquid book.
type Session struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	catalog  map[string][]types.Contract // family -> contracts
	book     map[string]int              // code -> signed net quantity
	avgPrice map[string]decimal.Decimal  // code -> average entry price
	orders   map[string]*types.OrderHandle

	nextSeq   atomic.Int64
	nextPosID atomic.Int64
}

// NewSession creates a paper session seeded with a default MXF/TXF catalog.
func NewSession(cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MarkPrices == nil {
		cfg.MarkPrices = map[string]decimal.Decimal{}
	}

	s := &Session{
		cfg:      cfg,
		logger:   logger.With("component", "paper_session"),
		catalog:  make(map[string][]types.Contract),
		book:     make(map[string]int),
		avgPrice: make(map[string]decimal.Decimal),
		orders:   make(map[string]*types.OrderHandle),
	}
	s.nextSeq.Store(1)
	s.nextPosID.Store(1)

	s.seedCatalog()
	return s
}

// seedCatalog loads a deterministic contract set: two monthly contracts plus
// the rolling alias per family, mirroring the shape of the live catalog.
func (s *Session) seedCatalog() {
	seed := []struct {
		family string
		name   string
		ref    string
	}{
		{"MXF", "Mini TAIEX Futures", "23000"},
		{"TXF", "TAIEX Futures", "23000"},
	}

	for _, sd := range seed {
		ref := decimal.RequireFromString(sd.ref)
		front := types.Contract{
			Symbol:         sd.family + "202601",
			Code:           sd.family + "A6",
			Name:           sd.name + " 202601",
			Category:       sd.family,
			DeliveryMonth:  "202601",
			Exchange:       "TAIFEX",
			UnderlyingKind: "I",
			Unit:           1,
			LimitUp:        ref.Mul(decimal.RequireFromString("1.1")),
			LimitDown:      ref.Mul(decimal.RequireFromString("0.9")),
			Reference:      ref,
		}
		next := front
		next.Symbol = sd.family + "202602"
		next.Code = sd.family + "B6"
		next.Name = sd.name + " 202602"
		next.DeliveryMonth = "202602"

		rolling := front
		rolling.Symbol = sd.family + "R1"
		rolling.Code = sd.family + "R1"
		rolling.Name = sd.name + " R1"
		// rolling alias tracks the front month
		rolling.DeliveryMonth = front.DeliveryMonth

		s.catalog[sd.family] = []types.Contract{front, next, rolling}
	}
}

// AddContract adds a contract to the catalog. Intended for tests.
func (s *Session) AddContract(c types.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[c.Category] = append(s.catalog[c.Category], c)
}

// SetPosition seeds a position. Intended for tests and sim setup.
func (s *Session) SetPosition(code string, net int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if net == 0 {
		delete(s.book, code)
		delete(s.avgPrice, code)
		return
	}
	s.book[code] = net
	if _, ok := s.avgPrice[code]; !ok {
		s.avgPrice[code] = s.markPriceLocked(code)
	}
}

// ListContracts returns the seeded contracts of one family.
func (s *Session) ListContracts(_ context.Context, family string) ([]types.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contracts, ok := s.catalog[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrFamilyNotFound, family)
	}

	out := make([]types.Contract, len(contracts))
	copy(out, contracts)
	return out, nil
}

// ListPositions returns the simulated position book.
func (s *Session) ListPositions(_ context.Context) ([]types.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	positions := make([]types.Position, 0, len(s.book))
	for code, net := range s.book {
		if net == 0 {
			continue
		}
		dir := types.DirectionBuy
		qty := net
		if net < 0 {
			dir = types.DirectionSell
			qty = -net
		}
		mark := s.markPriceLocked(code)
		positions = append(positions, types.Position{
			ID:        s.nextPosID.Add(1),
			Code:      code,
			Direction: dir,
			Quantity:  qty,
			Price:     s.avgPrice[code],
			LastPrice: mark,
			Pnl:       mark.Sub(s.avgPrice[code]).Mul(decimal.NewFromInt(int64(net))),
		})
	}
	return positions, nil
}

// PlaceOrder fills the order immediately at the mark price and updates the
// position book.
func (s *Session) PlaceOrder(_ context.Context, contract types.Contract, spec session.OrderSpec) (*types.OrderHandle, error) {
	if spec.Quantity <= 0 {
		return nil, session.NewOrderError(session.OrderCauseRejected,
			fmt.Errorf("quantity %d is not positive", spec.Quantity))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.contractKnownLocked(contract.Code) {
		return nil, session.NewOrderError(session.OrderCauseContractGone,
			fmt.Errorf("contract %s not in catalog", contract.Code))
	}

	price := s.markPriceLocked(contract.Code)
	if price.IsZero() {
		price = contract.Reference
	}

	signed := spec.Quantity
	if spec.Direction == types.DirectionSell {
		signed = -spec.Quantity
	}
	prev := s.book[contract.Code]
	s.book[contract.Code] = prev + signed
	if s.book[contract.Code] == 0 {
		delete(s.book, contract.Code)
		delete(s.avgPrice, contract.Code)
	} else if prev == 0 || (prev > 0) != (s.book[contract.Code] > 0) {
		// fresh position or reversal: entry price resets to the fill
		s.avgPrice[contract.Code] = price
	}

	seq := s.nextSeq.Add(1)
	now := time.Now()
	handle := &types.OrderHandle{
		ID:          uuid.NewString(),
		SeqNo:       fmt.Sprintf("%06d", seq),
		OrdNo:       fmt.Sprintf("P%05d", seq),
		Code:        contract.Code,
		Direction:   spec.Direction,
		Quantity:    spec.Quantity,
		SubmittedAt: now,
		State: types.OrderState{
			Status:        types.StatusFilled,
			RawStatus:     string(types.StatusFilled),
			OrderQuantity: spec.Quantity,
			DealQuantity:  spec.Quantity,
			Deals: []types.Deal{{
				Seq:      fmt.Sprintf("%06d", seq),
				Price:    price,
				Quantity: spec.Quantity,
				Ts:       now.Unix(),
			}},
		},
	}
	s.orders[handle.ID] = handle

	s.logger.Debug("paper order filled",
		"code", contract.Code,
		"direction", spec.Direction.String(),
		"quantity", spec.Quantity,
		"price", price,
	)

	return handle, nil
}

// RefreshStatus copies the stored order state onto the handle.
func (s *Session) RefreshStatus(_ context.Context, handle *types.OrderHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[handle.ID]
	if !ok {
		return fmt.Errorf("order %s not found", handle.ID)
	}

	handle.State = stored.State
	handle.State.Deals = make([]types.Deal, len(stored.State.Deals))
	copy(handle.State.Deals, stored.State.Deals)
	return nil
}

// Close releases the session. No-op for the paper session.
func (s *Session) Close() error {
	return nil
}

func (s *Session) contractKnownLocked(code string) bool {
	for _, contracts := range s.catalog {
		for _, c := range contracts {
			if c.Code == code {
				return true
			}
		}
	}
	return false
}

func (s *Session) markPriceLocked(code string) decimal.Decimal {
	if p, ok := s.cfg.MarkPrices[code]; ok {
		return p
	}
	for _, contracts := range s.catalog {
		for _, c := range contracts {
			if c.Code == code {
				return c.Reference
			}
		}
	}
	return decimal.Zero
}
