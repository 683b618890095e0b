package engine

import (
	"testing"

	"github.com/chiehlin/taifex-gateway/internal/types"
)

func TestSizeOrder(t *testing.T) {
	tests := []struct {
		name      string
		action    types.Action
		requested int
		net       int
		wantPlan  types.OrderPlan
		wantOK    bool
	}{
		{"long entry flat", types.ActionLongEntry, 5, 0, types.OrderPlan{Direction: types.DirectionBuy, Quantity: 5}, true},
		{"long entry against short covers and opens", types.ActionLongEntry, 5, -3, types.OrderPlan{Direction: types.DirectionBuy, Quantity: 8}, true},
		{"long entry adds to long", types.ActionLongEntry, 5, 4, types.OrderPlan{Direction: types.DirectionBuy, Quantity: 5}, true},
		{"short entry flat", types.ActionShortEntry, 5, 0, types.OrderPlan{Direction: types.DirectionSell, Quantity: 5}, true},
		{"short entry against long covers and opens", types.ActionShortEntry, 5, 3, types.OrderPlan{Direction: types.DirectionSell, Quantity: 8}, true},
		{"short entry adds to short", types.ActionShortEntry, 2, -1, types.OrderPlan{Direction: types.DirectionSell, Quantity: 2}, true},
		{"long exit closes entire long", types.ActionLongExit, 0, 7, types.OrderPlan{Direction: types.DirectionSell, Quantity: 7}, true},
		{"long exit flat is no action", types.ActionLongExit, 0, 0, types.OrderPlan{}, false},
		{"long exit against short is no action", types.ActionLongExit, 0, -2, types.OrderPlan{}, false},
		{"short exit closes entire short", types.ActionShortExit, 0, -4, types.OrderPlan{Direction: types.DirectionBuy, Quantity: 4}, true},
		{"short exit flat is no action", types.ActionShortExit, 0, 0, types.OrderPlan{}, false},
		{"short exit against long is no action", types.ActionShortExit, 0, 5, types.OrderPlan{}, false},
		{"unknown action is no action", types.Action("hold"), 5, 0, types.OrderPlan{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := SizeOrder(tt.action, tt.requested, tt.net)
			if ok != tt.wantOK {
				t.Fatalf("SizeOrder() ok = %v, want %v", ok, tt.wantOK)
			}
			if plan != tt.wantPlan {
				t.Errorf("SizeOrder() plan = %+v, want %+v", plan, tt.wantPlan)
			}
		})
	}
}

func TestSizeOrder_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		plan, ok := SizeOrder(types.ActionLongEntry, 5, -3)
		if !ok || plan.Quantity != 8 {
			t.Fatalf("iteration %d: plan = %+v ok = %v, want Buy 8", i, plan, ok)
		}
	}
}
