package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chiehlin/taifex-gateway/internal/alerting"
	"github.com/chiehlin/taifex-gateway/internal/metrics"
	"github.com/chiehlin/taifex-gateway/internal/session"
	"github.com/chiehlin/taifex-gateway/internal/types"
)

// Outcome classifies the result of a successful placement call.
type Outcome string

const (
	// OutcomeSuccess means exactly one order was submitted.
	OutcomeSuccess Outcome = "success"
	// OutcomeNoAction means the sizer produced no plan (exit with nothing to
	// exit) and the exchange was not contacted.
	OutcomeNoAction Outcome = "no_action"
)

// Placement is the result of a PlaceOrder call. Handle is nil for no-action
// outcomes.
type Placement struct {
	Outcome Outcome
	Handle  *types.OrderHandle
}

// Config wires an Engine's collaborators.
type Config struct {
	Session  session.Session
	Families []string
	Logger   *slog.Logger
	Recorder *metrics.Recorder
	Alerter  alerting.Alerter

	// AlertGate filters which events reach the alerter. Nil enables all.
	AlertGate func(event alerting.AlertEvent) bool
}

// Engine orchestrates the placement chain: resolve contract, read position,
// size, submit. Calls are strictly sequential per request; the session layer
// serializes concurrent requests, so the engine itself holds no order lock.
type Engine struct {
	session   session.Session
	directory *Directory
	logger    *slog.Logger
	recorder  *metrics.Recorder
	alerter   alerting.Alerter
	alertGate func(event alerting.AlertEvent) bool

	mu     sync.RWMutex
	orders map[string]*types.OrderHandle
}

// New creates an engine from the config.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	return &Engine{
		session:   cfg.Session,
		directory: NewDirectory(cfg.Session, cfg.Families, logger, recorder, cfg.Alerter),
		logger:    logger.With("component", "engine"),
		recorder:  recorder,
		alerter:   cfg.Alerter,
		alertGate: cfg.AlertGate,
		orders:    make(map[string]*types.OrderHandle),
	}
}

// PlaceOrder runs the full placement chain for one validated request.
// Exactly one order is submitted per call that produces a plan; exits with
// nothing to exit return OutcomeNoAction without contacting the exchange.
func (e *Engine) PlaceOrder(ctx context.Context, action types.Action, symbol string, quantity int) (Placement, error) {
	if !action.Valid() {
		return Placement{}, fmt.Errorf("action %q: %w", action, types.ErrInvalidAction)
	}
	if action.IsEntry() && quantity <= 0 {
		return Placement{}, fmt.Errorf("quantity %d: %w", quantity, types.ErrInvalidQuantity)
	}

	start := time.Now()
	logger := e.logger.With("symbol", symbol, "action", string(action))

	contract, err := e.directory.BySymbol(ctx, symbol)
	if err != nil {
		e.recordFailure(symbol, action, err)
		return Placement{}, err
	}

	// Orders and positions book under the actual code, so a rolling alias is
	// swapped for its actual contract before anything else. An unresolved
	// alias degrades to trading the alias itself.
	if contract.Rolling() {
		code, resolved, err := e.directory.ActualCode(ctx, contract)
		if err != nil {
			e.recordFailure(symbol, action, err)
			return Placement{}, err
		}
		if resolved {
			actual, err := e.directory.ByCode(ctx, code)
			if err != nil {
				e.recordFailure(symbol, action, err)
				return Placement{}, err
			}
			contract = actual
		}
	}

	net, _, err := e.NetPosition(ctx, contract)
	if err != nil {
		e.recordFailure(symbol, action, err)
		return Placement{}, err
	}

	plan, ok := SizeOrder(action, quantity, net)
	if !ok {
		logger.Info("no action", "net_position", net)
		e.recorder.RecordOrder(symbol, string(action), string(OutcomeNoAction))
		return Placement{Outcome: OutcomeNoAction}, nil
	}

	handle, err := e.submit(ctx, contract, plan)
	if err != nil {
		e.recordFailure(symbol, action, err)
		e.alert(ctx, alerting.EventOrderFailed,
			fmt.Sprintf("order failed for %s", symbol),
			"action", string(action),
			"error", err.Error())
		return Placement{}, err
	}

	e.registerOrder(handle)
	logger.Info("order submitted",
		"order_id", handle.ID,
		"seqno", handle.SeqNo,
		"direction", plan.Direction.String(),
		"quantity", plan.Quantity,
		"net_position", net)
	e.recorder.RecordOrder(symbol, string(action), string(OutcomeSuccess))
	e.recorder.RecordOrderQuantity(symbol, plan.Quantity)
	e.recorder.RecordPlacementLatency(time.Since(start))
	e.alert(ctx, alerting.EventOrderSubmitted,
		fmt.Sprintf("%s %d %s", plan.Direction, plan.Quantity, symbol),
		"order_id", handle.ID)

	return Placement{Outcome: OutcomeSuccess, Handle: handle}, nil
}

// TradableSymbols lists the symbols of every tradable contract.
func (e *Engine) TradableSymbols(ctx context.Context) ([]string, error) {
	contracts, err := e.directory.TradableContracts(ctx)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(contracts))
	for _, c := range contracts {
		symbols = append(symbols, c.Symbol)
	}
	return symbols, nil
}

// TradableCodes lists the codes of every tradable contract.
func (e *Engine) TradableCodes(ctx context.Context) ([]string, error) {
	contracts, err := e.directory.TradableContracts(ctx)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(contracts))
	for _, c := range contracts {
		codes = append(codes, c.Code)
	}
	return codes, nil
}

// ContractDetails returns the full descriptor for one symbol.
func (e *Engine) ContractDetails(ctx context.Context, symbol string) (types.Contract, error) {
	return e.directory.BySymbol(ctx, symbol)
}

// TradableContracts returns the full tradable contract list.
func (e *Engine) TradableContracts(ctx context.Context) ([]types.Contract, error) {
	return e.directory.TradableContracts(ctx)
}

// Positions lists the account's live positions.
func (e *Engine) Positions(ctx context.Context) ([]types.Position, error) {
	return e.session.ListPositions(ctx)
}

func (e *Engine) registerOrder(handle *types.OrderHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orders[handle.ID] = handle
}

func (e *Engine) lookupOrder(id string) *types.OrderHandle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orders[id]
}

// recordFailure classifies an error for telemetry.
func (e *Engine) recordFailure(symbol string, action types.Action, err error) {
	e.recorder.RecordOrder(symbol, string(action), "failed")

	var oErr *session.OrderError
	if errors.As(err, &oErr) {
		e.recorder.RecordOrderFailure(oErr.Cause.String())
		return
	}
	var sErr *session.SessionError
	if errors.As(err, &sErr) {
		e.recorder.RecordSessionError(sErr.Cause.String())
		e.alert(context.Background(), alerting.EventSessionError,
			"brokerage session failure", "error", err.Error())
	}
}

func (e *Engine) alert(ctx context.Context, event alerting.AlertEvent, message string, fields ...any) {
	if e.alerter == nil {
		return
	}
	if e.alertGate != nil && !e.alertGate(event) {
		return
	}
	if err := e.alerter.Alert(ctx, alerting.EventSeverity(event), message, fields...); err != nil {
		e.logger.Warn("alert delivery failed", "event", string(event), "error", err)
	}
}
