package engine

import (
	"context"
	"fmt"

	"github.com/chiehlin/taifex-gateway/internal/types"
	"github.com/shopspring/decimal"
)

// fillAverage derives the volume-weighted average fill price from the deal
// list. Zero deals yields zero, never a division error.
func fillAverage(deals []types.Deal) decimal.Decimal {
	total := 0
	notional := decimal.Zero
	for _, d := range deals {
		notional = notional.Add(d.Price.Mul(decimal.NewFromInt(int64(d.Quantity))))
		total += d.Quantity
	}
	if total == 0 {
		return decimal.Zero
	}
	return notional.Div(decimal.NewFromInt(int64(total)))
}

// Reconcile refreshes the handle's status from the exchange and builds the
// derived fill report. A nil handle yields a no_trade report with zero
// session calls. A refresh failure degrades to an error report rather than a
// hard error; status polling is routinely retried by the operator.
func (e *Engine) Reconcile(ctx context.Context, handle *types.OrderHandle) types.FillReport {
	if handle == nil {
		e.recorder.RecordReconciliation(string(types.StatusNoTrade))
		return types.FillReport{Status: types.StatusNoTrade}
	}

	if err := e.session.RefreshStatus(ctx, handle); err != nil {
		e.logger.Warn("status refresh failed", "order_id", handle.ID, "error", err)
		e.recorder.RecordReconciliation(string(types.StatusError))
		return types.FillReport{Status: types.StatusError, Error: err.Error()}
	}

	state := handle.State
	report := types.FillReport{
		Status:         state.Status,
		RawStatus:      state.RawStatus,
		StatusCode:     state.StatusCode,
		Msg:            state.Msg,
		OrderID:        handle.ID,
		SeqNo:          handle.SeqNo,
		OrdNo:          handle.OrdNo,
		OrderQuantity:  state.OrderQuantity,
		DealQuantity:   state.DealQuantity,
		CancelQuantity: state.CancelQuantity,
		FillAvgPrice:   fillAverage(state.Deals),
		Deals:          state.Deals,
	}
	e.recorder.RecordReconciliation(string(report.Status))
	return report
}

// ReconcileOrder reconciles a previously submitted order by its brokerage
// order id, via the in-memory handle registry.
func (e *Engine) ReconcileOrder(ctx context.Context, orderID string) (types.FillReport, error) {
	handle := e.lookupOrder(orderID)
	if handle == nil {
		return types.FillReport{}, fmt.Errorf("order %q: %w", orderID, types.ErrNotFound)
	}
	return e.Reconcile(ctx, handle), nil
}
