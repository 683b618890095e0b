package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/chiehlin/taifex-gateway/internal/audit"
	"github.com/chiehlin/taifex-gateway/internal/engine"
	"github.com/chiehlin/taifex-gateway/internal/types"
)

func (s *Server) handleSymbols(c *gin.Context) {
	symbols, err := s.engine.TradableSymbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbols": symbols, "count": len(symbols)})
}

func (s *Server) handleSymbolDetails(c *gin.Context) {
	symbol := c.Param("symbol")

	contract, err := s.engine.ContractDetails(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "symbol not found: " + symbol})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) handleContracts(c *gin.Context) {
	codes, err := s.engine.TradableCodes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": codes, "count": len(codes)})
}

type positionView struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Direction string          `json:"direction"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LastPrice decimal.Decimal `json:"last_price"`
	Pnl       decimal.Decimal `json:"pnl"`
}

func (s *Server) handlePositions(c *gin.Context) {
	positions, err := s.engine.Positions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}

	views := make([]positionView, 0, len(positions))
	for _, p := range positions {
		views = append(views, positionView{
			ID:        p.ID,
			Code:      p.Code,
			Direction: p.Direction.String(),
			Quantity:  p.Quantity,
			Price:     p.Price,
			LastPrice: p.LastPrice,
			Pnl:       p.Pnl,
		})
	}
	c.JSON(http.StatusOK, gin.H{"positions": views, "count": len(views)})
}

type orderRequest struct {
	Action   string `json:"action" binding:"required"`
	Symbol   string `json:"symbol" binding:"required"`
	Quantity int    `json:"quantity"`
}

type orderView struct {
	OrderID   string `json:"order_id"`
	SeqNo     string `json:"seqno"`
	OrdNo     string `json:"ordno"`
	Code      string `json:"code"`
	Direction string `json:"direction"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	action := types.Action(req.Action)
	placement, err := s.engine.PlaceOrder(c.Request.Context(), action, req.Symbol, req.Quantity)
	if err != nil {
		s.auditOutcome(c, req, "failed", nil, err)

		switch {
		case errors.Is(err, types.ErrInvalidAction), errors.Is(err, types.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		case errors.Is(err, types.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		}
		return
	}

	if placement.Outcome == engine.OutcomeNoAction {
		s.auditOutcome(c, req, "no_action", nil, nil)
		c.JSON(http.StatusOK, gin.H{"status": "no_action"})
		return
	}

	s.auditOutcome(c, req, "success", placement.Handle, nil)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"order": orderView{
			OrderID:   placement.Handle.ID,
			SeqNo:     placement.Handle.SeqNo,
			OrdNo:     placement.Handle.OrdNo,
			Code:      placement.Handle.Code,
			Direction: placement.Handle.Direction.String(),
			Quantity:  placement.Handle.Quantity,
		},
	})
}

// auditOutcome records every placement outcome, success or not. Audit
// failures are logged and swallowed; a broken audit trail must not reject
// orders.
func (s *Server) auditOutcome(c *gin.Context, req orderRequest, status string, handle *types.OrderHandle, placeErr error) {
	record := &audit.Record{
		Symbol:   req.Symbol,
		Action:   req.Action,
		Quantity: req.Quantity,
		Status:   status,
	}
	if handle != nil {
		record.OrderID = handle.ID
		record.SeqNo = handle.SeqNo
		record.OrdNo = handle.OrdNo
		record.Quantity = handle.Quantity
	}
	if placeErr != nil {
		record.ErrorMessage = placeErr.Error()
	}

	if err := s.store.Insert(c.Request.Context(), record); err != nil {
		s.logger.Error("audit insert failed", "symbol", req.Symbol, "error", err)
	}
}

func (s *Server) handleOrderStatus(c *gin.Context) {
	id := c.Param("id")

	report, err := s.engine.ReconcileOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "order not found: " + id})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) auditFilter(c *gin.Context) (audit.Filter, error) {
	filter := audit.Filter{
		Symbol: c.Query("symbol"),
		Action: c.Query("action"),
		Status: c.Query("status"),
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return audit.Filter{}, errors.New("invalid from timestamp, want RFC3339")
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return audit.Filter{}, errors.New("invalid to timestamp, want RFC3339")
		}
		filter.To = t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return audit.Filter{}, errors.New("invalid limit")
		}
		filter.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return audit.Filter{}, errors.New("invalid offset")
		}
		filter.Offset = n
	}
	return filter, nil
}

func (s *Server) handleOrders(c *gin.Context) {
	filter, err := s.auditFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	records, err := s.store.Query(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if records == nil {
		records = []audit.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": records, "count": len(records)})
}

func (s *Server) handleOrdersExport(c *gin.Context) {
	filter, err := s.auditFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	records, err := s.store.Query(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if records == nil {
		records = []audit.Record{}
	}

	switch c.DefaultQuery("format", "csv") {
	case "json":
		c.JSON(http.StatusOK, records)
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
		c.Status(http.StatusOK)
		if err := audit.WriteCSV(c.Writer, records); err != nil {
			s.logger.Error("csv export failed", "error", err)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": "format must be csv or json"})
	}
}
