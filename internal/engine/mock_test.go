package engine

import (
	"context"
	"fmt"

	"github.com/chiehlin/taifex-gateway/internal/session"
	"github.com/chiehlin/taifex-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// mockSession is a hand-rolled session.Session with call counters and
// injectable failures.
type mockSession struct {
	contracts map[string][]types.Contract
	positions []types.Position

	positionsErr error
	placeErr     error
	refreshErr   error
	refreshState *types.OrderState

	listContractsCalls int
	listPositionsCalls int
	placeCalls         int
	refreshCalls       int

	placedSpecs []session.OrderSpec
}

func newMockSession() *mockSession {
	ref := decimal.NewFromInt(23000)
	front := types.Contract{
		Symbol: "MXF202601", Code: "MXFA6", Category: "MXF",
		DeliveryMonth: "202601", Exchange: "TAIFEX", Reference: ref,
	}
	rolling := types.Contract{
		Symbol: "MXFR1", Code: "MXFR1", Category: "MXF",
		DeliveryMonth: "202601", Exchange: "TAIFEX", Reference: ref,
	}
	return &mockSession{
		contracts: map[string][]types.Contract{
			"MXF": {front, rolling},
		},
	}
}

func (m *mockSession) ListContracts(_ context.Context, family string) ([]types.Contract, error) {
	m.listContractsCalls++
	contracts, ok := m.contracts[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrFamilyNotFound, family)
	}
	return contracts, nil
}

func (m *mockSession) ListPositions(_ context.Context) ([]types.Position, error) {
	m.listPositionsCalls++
	if m.positionsErr != nil {
		return nil, m.positionsErr
	}
	return m.positions, nil
}

func (m *mockSession) PlaceOrder(_ context.Context, contract types.Contract, spec session.OrderSpec) (*types.OrderHandle, error) {
	m.placeCalls++
	m.placedSpecs = append(m.placedSpecs, spec)
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	return &types.OrderHandle{
		ID:        fmt.Sprintf("mock-%d", m.placeCalls),
		SeqNo:     fmt.Sprintf("%06d", m.placeCalls),
		OrdNo:     fmt.Sprintf("M%05d", m.placeCalls),
		Code:      contract.Code,
		Direction: spec.Direction,
		Quantity:  spec.Quantity,
		State: types.OrderState{
			Status:        types.StatusSubmitted,
			OrderQuantity: spec.Quantity,
		},
	}, nil
}

func (m *mockSession) RefreshStatus(_ context.Context, handle *types.OrderHandle) error {
	m.refreshCalls++
	if m.refreshErr != nil {
		return m.refreshErr
	}
	if m.refreshState != nil {
		handle.State = *m.refreshState
	}
	return nil
}

func (m *mockSession) Close() error { return nil }

func newTestEngine(sess session.Session, families ...string) *Engine {
	if len(families) == 0 {
		families = []string{"MXF", "TXF"}
	}
	return New(Config{Session: sess, Families: families})
}
