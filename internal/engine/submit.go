package engine

import (
	"context"
	"errors"

	"github.com/chiehlin/taifex-gateway/internal/session"
	"github.com/chiehlin/taifex-gateway/internal/types"
)

// submit places exactly one market IOC order for the plan. No retries: a
// rejected or expired market IOC order is a trading decision for the
// operator, not plumbing.
func (e *Engine) submit(ctx context.Context, contract types.Contract, plan types.OrderPlan) (*types.OrderHandle, error) {
	spec := session.MarketIOC(plan.Direction, plan.Quantity)
	handle, err := e.session.PlaceOrder(ctx, contract, spec)
	if err != nil {
		var oErr *session.OrderError
		if !errors.As(err, &oErr) {
			err = session.NewOrderError(session.OrderCauseUnclassified, err)
		}
		return nil, err
	}
	return handle, nil
}
