// Package bridge implements session.Session against a Shioaji bridge
// sidecar over a TCP JSON-lines protocol. The bridge owns the vendor SDK;
// this client owns serialization, deadlines, rate limiting and error
// classification.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/chiehlin/taifex-gateway/internal/session"
	"github.com/chiehlin/taifex-gateway/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Bridge error codes. These mirror the vendor SDK exception names the
// sidecar forwards verbatim.
const (
	codeToken             = "TokenError"
	codeMaintenance       = "SystemMaintenance"
	codeTimeout           = "TimeoutError"
	codeCAActivation      = "CAActivationError"
	codeAccountNotSigned  = "AccountNotSignError"
	codeAccountNotProvide = "AccountNotProvideError"
	codeContractNotExist  = "TargetContractNotExistError"
	codeFamilyNotFound    = "FamilyNotFound"
)

// Config holds bridge client configuration.
type Config struct {
	Host               string
	Port               int
	APIKey             string
	SecretKey          string
	Simulation         bool
	CAPath             string
	CAPassword         string
	Timeout            time.Duration
	RateLimitPerSecond int
}

// Client is a session.Session backed by the bridge sidecar. The exchange
// session serializes requests per account, so the client keeps a single
// connection and one in-flight request at a time.
type Client struct {
	cfg     Config
	logger  *slog.Logger
	limiter *rate.Limiter

	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader
}

type request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type response struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *bridgeError    `json:"error,omitempty"`
}

type bridgeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *bridgeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Dial connects to the bridge, logs in, and activates the CA certificate
// when live trading is requested. All failures surface as SessionError.
func Dial(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = 10
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	logger = logger.With("component", "bridge_session")
	logger.Info("connecting to bridge", "addr", addr, "simulation", cfg.Simulation)

	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, session.NewSessionError(session.SessionCauseTimeout,
			fmt.Errorf("dial bridge %s: %w", addr, err))
	}

	c := newClient(conn, cfg, logger)
	if err := c.login(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// newClient wraps an established connection. Split out of Dial so tests can
// drive the client over an in-memory pipe.
func newClient(conn net.Conn, cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitPerSecond),
		conn:    conn,
		r:       bufio.NewReader(conn),
	}
}

func (c *Client) login(ctx context.Context) error {
	params := map[string]any{
		"api_key":    c.cfg.APIKey,
		"secret_key": c.cfg.SecretKey,
		"simulation": c.cfg.Simulation,
	}
	if err := c.call(ctx, "login", params, nil); err != nil {
		return session.NewSessionError(classifySessionCause(err), fmt.Errorf("login: %w", err))
	}

	if !c.cfg.Simulation {
		// Real trading requires an activated CA certificate.
		caParams := map[string]any{
			"ca_path":     c.cfg.CAPath,
			"ca_password": c.cfg.CAPassword,
		}
		if err := c.call(ctx, "activate_ca", caParams, nil); err != nil {
			return session.NewSessionError(session.SessionCauseCertificate,
				fmt.Errorf("activate ca: %w", err))
		}
		c.logger.Info("CA certificate activated")
	}

	c.logger.Info("bridge session established")
	return nil
}

// call performs one serialized request/response round trip.
func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	req := request{ID: uuid.NewString(), Method: method, Params: raw}
	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	if _, err := c.conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", method, err)
	}

	respLine, err := c.r.ReadBytes('\n')
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return fmt.Errorf("%s: %w", method, &bridgeError{Code: codeTimeout, Message: err.Error()})
		}
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var resp response
	if err := json.Unmarshal(respLine, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if resp.ID != req.ID {
		return fmt.Errorf("%s: response id %s does not match request %s", method, resp.ID, req.ID)
	}
	if !resp.OK {
		if resp.Error == nil {
			return fmt.Errorf("%s: bridge reported failure without error detail", method)
		}
		return fmt.Errorf("%s: %w", method, resp.Error)
	}
	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

type wireContract struct {
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

// ListContracts fetches the catalog entries of one product family.
func (c *Client) ListContracts(ctx context.Context, family string) ([]types.Contract, error) {
	var result struct {
		Contracts []wireContract `json:"contracts"`
	}
	err := c.call(ctx, "list_contracts", map[string]any{"family": family}, &result)
	if err != nil {
		if code(err) == codeFamilyNotFound {
			return nil, fmt.Errorf("%w: %s", session.ErrFamilyNotFound, family)
		}
		return nil, session.NewSessionError(classifySessionCause(err),
			fmt.Errorf("list contracts %s: %w", family, err))
	}

	contracts := make([]types.Contract, 0, len(result.Contracts))
	for _, w := range result.Contracts {
		contracts = append(contracts, types.Contract{
			Symbol:         w.Symbol,
			Code:           w.Code,
			Name:           w.Name,
			Category:       w.Category,
			DeliveryMonth:  w.DeliveryMonth,
			Exchange:       w.Exchange,
			UnderlyingKind: w.UnderlyingKind,
			Unit:           w.Unit,
			LimitUp:        w.LimitUp,
			LimitDown:      w.LimitDown,
			Reference:      w.Reference,
		})
	}
	return contracts, nil
}

type wirePosition struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Direction string          `json:"direction"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LastPrice decimal.Decimal `json:"last_price"`
	Pnl       decimal.Decimal `json:"pnl"`
}

// ListPositions fetches the live futures positions of the trading account.
func (c *Client) ListPositions(ctx context.Context) ([]types.Position, error) {
	var result struct {
		Positions []wirePosition `json:"positions"`
	}
	if err := c.call(ctx, "list_positions", map[string]any{}, &result); err != nil {
		return nil, session.NewSessionError(classifySessionCause(err),
			fmt.Errorf("list positions: %w", err))
	}

	positions := make([]types.Position, 0, len(result.Positions))
	for _, w := range result.Positions {
		dir, ok := types.ParseDirection(w.Direction)
		if !ok {
			return nil, fmt.Errorf("%w: position %s has direction %q",
				types.ErrInvalidState, w.Code, w.Direction)
		}
		positions = append(positions, types.Position{
			ID:        w.ID,
			Code:      w.Code,
			Direction: dir,
			Quantity:  w.Quantity,
			Price:     w.Price,
			LastPrice: w.LastPrice,
			Pnl:       w.Pnl,
		})
	}
	return positions, nil
}

type wireOrderResult struct {
	OrderID string          `json:"order_id"`
	SeqNo   string          `json:"seqno"`
	OrdNo   string          `json:"ordno"`
	Status  wireOrderStatus `json:"status"`
}

type wireOrderStatus struct {
	Status         string     `json:"status"`
	StatusCode     string     `json:"status_code"`
	Msg            string     `json:"msg"`
	OrderQuantity  int        `json:"order_quantity"`
	DealQuantity   int        `json:"deal_quantity"`
	CancelQuantity int        `json:"cancel_quantity"`
	Deals          []wireDeal `json:"deals"`
}

type wireDeal struct {
	Seq      string          `json:"seq"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Ts       int64           `json:"ts"`
}

// PlaceOrder submits one order through the bridge.
func (c *Client) PlaceOrder(ctx context.Context, contract types.Contract, spec session.OrderSpec) (*types.OrderHandle, error) {
	params := map[string]any{
		"code":          contract.Code,
		"symbol":        contract.Symbol,
		"action":        spec.Direction.String(),
		"quantity":      spec.Quantity,
		"price":         spec.Price,
		"price_type":    string(spec.PriceType),
		"order_type":    string(spec.TimeInForce),
		"octype":        string(spec.OpenClose),
	}

	var result wireOrderResult
	if err := c.call(ctx, "place_order", params, &result); err != nil {
		return nil, session.NewOrderError(classifyOrderCause(err),
			fmt.Errorf("place order %s: %w", contract.Code, err))
	}

	handle := &types.OrderHandle{
		ID:          result.OrderID,
		SeqNo:       result.SeqNo,
		OrdNo:       result.OrdNo,
		Code:        contract.Code,
		Direction:   spec.Direction,
		Quantity:    spec.Quantity,
		SubmittedAt: time.Now(),
		State:       result.Status.toState(),
	}

	c.logger.Debug("order submitted",
		"code", contract.Code,
		"direction", spec.Direction.String(),
		"quantity", spec.Quantity,
		"order_id", handle.ID,
		"seqno", handle.SeqNo,
	)
	return handle, nil
}

// RefreshStatus re-reads the order's authoritative status and mutates the
// handle state in place.
func (c *Client) RefreshStatus(ctx context.Context, handle *types.OrderHandle) error {
	params := map[string]any{
		"order_id": handle.ID,
		"seqno":    handle.SeqNo,
	}
	var result wireOrderStatus
	if err := c.call(ctx, "update_status", params, &result); err != nil {
		return fmt.Errorf("update status %s: %w", handle.ID, err)
	}

	handle.State = result.toState()
	return nil
}

// Close logs out and closes the connection.
func (c *Client) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	// Best-effort logout; the connection close is what matters.
	if err := c.call(ctx, "logout", map[string]any{}, nil); err != nil {
		c.logger.Warn("logout failed", "err", err)
	}
	return c.conn.Close()
}

func (s wireOrderStatus) toState() types.OrderState {
	deals := make([]types.Deal, 0, len(s.Deals))
	for _, d := range s.Deals {
		deals = append(deals, types.Deal{
			Seq:      d.Seq,
			Price:    d.Price,
			Quantity: d.Quantity,
			Ts:       d.Ts,
		})
	}
	return types.OrderState{
		Status:         types.ParseStatus(s.Status),
		RawStatus:      s.Status,
		StatusCode:     s.StatusCode,
		Msg:            s.Msg,
		OrderQuantity:  s.OrderQuantity,
		DealQuantity:   s.DealQuantity,
		CancelQuantity: s.CancelQuantity,
		Deals:          deals,
	}
}

// code extracts the bridge error code from a wrapped error chain.
func code(err error) string {
	var be *bridgeError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func classifySessionCause(err error) session.SessionCause {
	switch code(err) {
	case codeToken:
		return session.SessionCauseAuth
	case codeMaintenance:
		return session.SessionCauseMaintenance
	case codeTimeout:
		return session.SessionCauseTimeout
	case codeCAActivation:
		return session.SessionCauseCertificate
	default:
		return session.SessionCauseUnclassified
	}
}

func classifyOrderCause(err error) session.OrderCause {
	switch code(err) {
	case codeContractNotExist:
		return session.OrderCauseContractGone
	case codeTimeout:
		return session.OrderCauseTimeout
	case codeAccountNotSigned, codeAccountNotProvide:
		return session.OrderCauseNotAuthorized
	default:
		return session.OrderCauseUnclassified
	}
}
