package engine

import (
	"context"
	"fmt"

	"github.com/chiehlin/taifex-gateway/internal/types"
)

// NetPosition returns the signed net quantity held for the contract: positive
// for net long, negative for net short, zero when flat. The second return
// value reports whether any position entry matched the resolved code.
//
// Positions mutate between calls (concurrent orders, partial fills), so this
// is re-queried immediately before every sizing decision and never cached.
func (e *Engine) NetPosition(ctx context.Context, contract types.Contract) (int, bool, error) {
	code, _, err := e.directory.ActualCode(ctx, contract)
	if err != nil {
		return 0, false, err
	}

	positions, err := e.session.ListPositions(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("list positions: %w", err)
	}

	net := 0
	found := false
	for _, p := range positions {
		if p.Code != code {
			continue
		}
		switch p.Direction {
		case types.DirectionBuy:
			net += p.Quantity
		case types.DirectionSell:
			net -= p.Quantity
		default:
			return 0, false, fmt.Errorf("position %s reports direction %d: %w", p.Code, p.Direction, types.ErrInvalidState)
		}
		found = true
	}
	return net, found, nil
}
