// Package engine implements the order execution core: contract resolution,
// position reading, order sizing, submission and status reconciliation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chiehlin/taifex-gateway/internal/alerting"
	"github.com/chiehlin/taifex-gateway/internal/metrics"
	"github.com/chiehlin/taifex-gateway/internal/session"
	"github.com/chiehlin/taifex-gateway/internal/types"
)

// Directory resolves trading symbols to contract descriptors and rolling
// contract codes to the currently effective actual code. Contracts are
// fetched fresh from the session on every call; the brokerage rolls codes
// between sessions, so caching would serve stale maturities.
type Directory struct {
	session  session.Session
	families []string
	logger   *slog.Logger
	recorder *metrics.Recorder
	alerter  alerting.Alerter
}

// NewDirectory creates a contract directory over the given session, limited
// to the configured product families.
func NewDirectory(sess session.Session, families []string, logger *slog.Logger, recorder *metrics.Recorder, alerter alerting.Alerter) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	return &Directory{
		session:  sess,
		families: families,
		logger:   logger.With("component", "directory"),
		recorder: recorder,
		alerter:  alerter,
	}
}

// TradableContracts returns all contracts of the configured family allow-list.
// A configured family absent from the brokerage catalog is logged and
// skipped; a missing product must not abort listing the others.
func (d *Directory) TradableContracts(ctx context.Context) ([]types.Contract, error) {
	var out []types.Contract
	for _, family := range d.families {
		contracts, err := d.session.ListContracts(ctx, family)
		if err != nil {
			if errors.Is(err, session.ErrFamilyNotFound) {
				d.logger.Warn("family missing from catalog, skipping", "family", family)
				continue
			}
			return nil, fmt.Errorf("list contracts for %s: %w", family, err)
		}
		for _, c := range contracts {
			// Guard against unrelated entries leaking from a shared catalog.
			if !strings.HasPrefix(c.Symbol, family) {
				continue
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// BySymbol returns the tradable contract with the exact symbol.
func (d *Directory) BySymbol(ctx context.Context, symbol string) (types.Contract, error) {
	contracts, err := d.TradableContracts(ctx)
	if err != nil {
		return types.Contract{}, err
	}
	for _, c := range contracts {
		if c.Symbol == symbol {
			return c, nil
		}
	}
	return types.Contract{}, fmt.Errorf("symbol %q: %w", symbol, types.ErrNotFound)
}

// ByCode returns the tradable contract with the exact code.
func (d *Directory) ByCode(ctx context.Context, code string) (types.Contract, error) {
	contracts, err := d.TradableContracts(ctx)
	if err != nil {
		return types.Contract{}, err
	}
	for _, c := range contracts {
		if c.Code == code {
			return c, nil
		}
	}
	return types.Contract{}, fmt.Errorf("code %q: %w", code, types.ErrNotFound)
}

// ActualCode resolves a contract to the code positions and orders are booked
// under. Non-rolling contracts resolve to their own code. Rolling contracts
// resolve to the actual contract sharing category and delivery month; when no
// such contract exists the rolling code itself is returned with
// resolved=false, and position lookups against it will miss.
func (d *Directory) ActualCode(ctx context.Context, contract types.Contract) (string, bool, error) {
	if !contract.Rolling() {
		return contract.Code, true, nil
	}

	contracts, err := d.TradableContracts(ctx)
	if err != nil {
		return "", false, err
	}
	for _, c := range contracts {
		if c.Rolling() {
			continue
		}
		if c.Category == contract.Category && c.DeliveryMonth == contract.DeliveryMonth {
			return c.Code, true, nil
		}
	}

	d.logger.Warn("rolling code unresolved, falling back to alias",
		"code", contract.Code,
		"category", contract.Category,
		"delivery_month", contract.DeliveryMonth)
	d.recorder.RecordUnresolvedRollingCode(contract.Code)
	if d.alerter != nil {
		_ = d.alerter.Alert(ctx, alerting.EventSeverity(alerting.EventCodeUnresolved),
			fmt.Sprintf("rolling code %s could not be resolved to an actual contract", contract.Code),
			"category", contract.Category,
			"delivery_month", contract.DeliveryMonth)
	}
	return contract.Code, false, nil
}
