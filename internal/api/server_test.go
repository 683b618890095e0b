package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chiehlin/taifex-gateway/internal/audit"
	"github.com/chiehlin/taifex-gateway/internal/config"
	"github.com/chiehlin/taifex-gateway/internal/engine"
	"github.com/chiehlin/taifex-gateway/internal/session/paper"
)

const testAuthKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	sess := paper.NewSession(paper.DefaultConfig(), nil)
	eng := engine.New(engine.Config{Session: sess, Families: []string{"MXF", "TXF"}})

	store, err := audit.NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("audit store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.ServerConfig{Port: 0, AuthKey: testAuthKey}
	return NewServer(cfg, eng, store, nil, nil)
}

func doRequest(t *testing.T, s *Server, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("X-Auth-Key", testAuthKey)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if w := doRequest(t, s, http.MethodGet, "/healthz", nil, false); w.Code != http.StatusOK {
		t.Errorf("/healthz = %d, want 200", w.Code)
	}
	if w := doRequest(t, s, http.MethodGet, "/live", nil, false); w.Code != http.StatusOK {
		t.Errorf("/live = %d, want 200", w.Code)
	}
	if w := doRequest(t, s, http.MethodGet, "/ready", nil, false); w.Code != http.StatusServiceUnavailable {
		t.Errorf("/ready before SetReady = %d, want 503", w.Code)
	}

	s.SetReady(true)
	if w := doRequest(t, s, http.MethodGet, "/ready", nil, false); w.Code != http.StatusOK {
		t.Errorf("/ready after SetReady = %d, want 200", w.Code)
	}
}

func TestSymbols(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/symbols", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("/symbols = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"].(float64) != 6 {
		t.Errorf("count = %v, want 6 (3 per family)", body["count"])
	}
}

func TestSymbolDetails(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/symbols/MXF202601", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("/symbols/MXF202601 = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["code"] != "MXFA6" {
		t.Errorf("code = %v, want MXFA6", body["code"])
	}

	w = doRequest(t, s, http.MethodGet, "/symbols/DOES_NOT_EXIST", nil, false)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown symbol = %d, want 404", w.Code)
	}
}

func TestContracts(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/contracts", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("/contracts = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"].(float64) != 6 {
		t.Errorf("count = %v, want 6", body["count"])
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/positions"},
		{http.MethodPost, "/order"},
		{http.MethodGet, "/order/x/status"},
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/orders/export"},
	}

	for _, p := range paths {
		w := doRequest(t, s, p.method, p.path, nil, false)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without key = %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/order",
		map[string]any{"action": "long_entry", "symbol": "MXFR1", "quantity": 3}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /order = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["status"] != "success" {
		t.Fatalf("status = %v, want success", body["status"])
	}
	order := body["order"].(map[string]any)
	if order["code"] != "MXFA6" {
		t.Errorf("order code = %v, want resolved MXFA6", order["code"])
	}
	if order["quantity"].(float64) != 3 {
		t.Errorf("quantity = %v, want 3", order["quantity"])
	}

	// The outcome lands in the audit trail.
	w = doRequest(t, s, http.MethodGet, "/orders?symbol=MXFR1", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /orders = %d", w.Code)
	}
	if decodeBody(t, w)["count"].(float64) != 1 {
		t.Error("successful order missing from audit trail")
	}
}

func TestPlaceOrder_NoAction(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/order",
		map[string]any{"action": "long_exit", "symbol": "MXF202601", "quantity": 0}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /order = %d, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["status"] != "no_action" {
		t.Errorf("status = %v, want no_action", decodeBody(t, w)["status"])
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing action", map[string]any{"symbol": "MXF202601", "quantity": 1}, http.StatusBadRequest},
		{"missing symbol", map[string]any{"action": "long_entry", "quantity": 1}, http.StatusBadRequest},
		{"bad action", map[string]any{"action": "hold", "symbol": "MXF202601", "quantity": 1}, http.StatusBadRequest},
		{"entry without quantity", map[string]any{"action": "long_entry", "symbol": "MXF202601"}, http.StatusBadRequest},
		{"unknown symbol", map[string]any{"action": "long_entry", "symbol": "NOPE", "quantity": 1}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/order", tt.body, true)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestOrderStatus_RoundTrip(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/order",
		map[string]any{"action": "short_entry", "symbol": "TXF202601", "quantity": 2}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /order = %d", w.Code)
	}
	orderID := decodeBody(t, w)["order"].(map[string]any)["order_id"].(string)

	w = doRequest(t, s, http.MethodGet, "/order/"+orderID+"/status", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	report := decodeBody(t, w)
	if report["status"] != "Filled" {
		t.Errorf("status = %v, want Filled", report["status"])
	}
	if report["deal_quantity"].(float64) != 2 {
		t.Errorf("deal_quantity = %v, want 2", report["deal_quantity"])
	}
}

func TestOrderStatus_UnknownID(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/order/no-such-id/status", nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPositions(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodPost, "/order",
		map[string]any{"action": "long_entry", "symbol": "MXF202601", "quantity": 4}, true)
	if w.Code != http.StatusOK {
		t.Fatal("seed order failed")
	}

	w = doRequest(t, s, http.MethodGet, "/positions", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("/positions = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"].(float64) != 1 {
		t.Fatalf("count = %v, want 1", body["count"])
	}
	pos := body["positions"].([]any)[0].(map[string]any)
	if pos["direction"] != "Buy" || pos["quantity"].(float64) != 4 {
		t.Errorf("position = %v, want Buy 4", pos)
	}
}

func TestOrdersExport_CSV(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/order",
		map[string]any{"action": "long_entry", "symbol": "MXF202601", "quantity": 1}, true)

	w := doRequest(t, s, http.MethodGet, "/orders/export?format=csv", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %s, want text/csv", ct)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "orders.csv") {
		t.Errorf("disposition = %s", w.Header().Get("Content-Disposition"))
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d csv lines, want header + 1 record", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,symbol,action") {
		t.Errorf("header = %s", lines[0])
	}
}

func TestOrdersExport_JSON(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/orders/export?format=json", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	var records []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode json export: %v", err)
	}
}

func TestOrdersExport_BadFormat(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/orders/export?format=xml", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/dashboard", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("/dashboard = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "TAIFEX Gateway") {
		t.Error("dashboard body missing title")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/order", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/metrics", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_") {
		t.Error("metrics output missing runtime collectors")
	}
}
