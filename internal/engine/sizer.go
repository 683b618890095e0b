package engine

import "github.com/chiehlin/taifex-gateway/internal/types"

// SizeOrder computes the exact order to execute for a requested action given
// the current signed net position. Entries in the opposite direction of an
// existing position are enlarged so one order both flattens the old position
// and opens the new one. Exits close the entire position; an exit against a
// flat or opposite position produces no plan.
//
// Pure function of its arguments. The second return value is false when no
// order should be submitted.
func SizeOrder(action types.Action, requested int, net int) (types.OrderPlan, bool) {
	switch action {
	case types.ActionLongEntry:
		quantity := requested
		if net < 0 {
			quantity += -net
		}
		return types.OrderPlan{Direction: types.DirectionBuy, Quantity: quantity}, true

	case types.ActionShortEntry:
		quantity := requested
		if net > 0 {
			quantity += net
		}
		return types.OrderPlan{Direction: types.DirectionSell, Quantity: quantity}, true

	case types.ActionLongExit:
		if net <= 0 {
			return types.OrderPlan{}, false
		}
		return types.OrderPlan{Direction: types.DirectionSell, Quantity: net}, true

	case types.ActionShortExit:
		if net >= 0 {
			return types.OrderPlan{}, false
		}
		return types.OrderPlan{Direction: types.DirectionBuy, Quantity: -net}, true

	default:
		return types.OrderPlan{}, false
	}
}
