package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/boutique/internal/config"
	"github.com/mamadbah2/boutique/internal/domain/models"
	"github.com/mamadbah2/boutique/internal/repository/memory"
	"github.com/mamadbah2/boutique/internal/server/handlers"
	"github.com/mamadbah2/boutique/internal/service/catalog"
	"github.com/mamadbah2/boutique/internal/service/pos"
	"github.com/mamadbah2/boutique/internal/service/reporting"
	"github.com/mamadbah2/boutique/internal/service/settings"
	"github.com/mamadbah2/boutique/internal/service/stock"
)

type recordingNotifier struct {
	to []string
}

func (n *recordingNotifier) Notify(_ context.Context, to, _ string) error {
	n.to = append(n.to, to)
	return nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *recordingNotifier) {
	t.Helper()

	catalogSvc := catalog.NewService(memory.NewCatalogStore(memory.DemoCatalog()...), nil)
	invoices := memory.NewInvoiceStore()
	settingsSvc := settings.NewService(config.StoreConfig{
		Name:           "My Fashion Store",
		Currency:       "EGP",
		TaxRatePercent: decimal.NewFromInt(14),
		PrinterType:    "pdf",
	}, nil)
	notifier := &recordingNotifier{}

	posSvc := pos.NewService(catalogSvc, invoices, settingsSvc, nil)
	stockSvc := stock.NewService(catalogSvc, notifier, nil, "supplier-1", nil)
	reportingSvc := reporting.NewService(invoices, invoices, catalogSvc, nil, time.UTC, nil)

	engine := New(Handlers{
		Products:  handlers.NewProductHandler(catalogSvc, nil),
		Invoices:  handlers.NewInvoiceHandler(posSvc, settingsSvc, nil),
		Stock:     handlers.NewStockHandler(stockSvc, nil),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, nil),
		Settings:  handlers.NewSettingsHandler(settingsSvc, nil),
		Webhook:   handlers.NewWebhookHandler(nil, nil),
	}, nil)
	return engine, notifier
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestStatusCodes(t *testing.T) {
	engine, _ := newTestEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/healthz", "", http.StatusOK},
		{"get product", http.MethodGet, "/api/products/p-90", "", http.StatusOK},
		{"unknown product", http.MethodGet, "/api/products/nope", "", http.StatusNotFound},
		{"create without name", http.MethodPost, "/api/products", `{"barcode":"999"}`, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/products", `{"barcode":"999","name":"Scarf","price":"-1"}`, http.StatusBadRequest},
		{"duplicate barcode", http.MethodPost, "/api/products", `{"barcode":"1234567890","name":"Copy"}`, http.StatusConflict},
		{"create", http.MethodPost, "/api/products", `{"barcode":"999","name":"Scarf","price":"120","quantity":4}`, http.StatusCreated},
		{"update unknown", http.MethodPut, "/api/products/nope", `{"barcode":"1","name":"x"}`, http.StatusNotFound},
		{"reorder level missing", http.MethodPatch, "/api/products/p-90/reorder-level", `{}`, http.StatusBadRequest},
		{"reorder level", http.MethodPatch, "/api/products/p-90/reorder-level", `{"reorder_level":12}`, http.StatusOK},
		{"delete", http.MethodDelete, "/api/products/p-96", "", http.StatusNoContent},
		{"scan empty barcode", http.MethodPost, "/api/registers/till-1/invoice/scan", `{"barcode":" "}`, http.StatusBadRequest},
		{"scan unknown barcode", http.MethodPost, "/api/registers/till-1/invoice/scan", `{"barcode":"000"}`, http.StatusNotFound},
		{"scan more than on hand", http.MethodPost, "/api/registers/till-2/invoice/scan", `{"barcode":"1234567894","quantity":2}`, http.StatusOK},
		{"save beyond stock", http.MethodPost, "/api/registers/till-2/invoice/save", "", http.StatusConflict},
		{"custom line bad discount", http.MethodPost, "/api/registers/till-1/invoice/items", `{"product":"Gift wrap","unit_price":"10","quantity":1,"discount":"11"}`, http.StatusBadRequest},
		{"remove unknown line", http.MethodDelete, "/api/registers/till-1/invoice/items/nope", "", http.StatusNotFound},
		{"save empty", http.MethodPost, "/api/registers/till-3/invoice/save", "", http.StatusUnprocessableEntity},
		{"print empty", http.MethodPost, "/api/registers/till-3/invoice/print", "", http.StatusUnprocessableEntity},
		{"export disabled", http.MethodPost, "/api/stock/export", "", http.StatusServiceUnavailable},
		{"order unknown", http.MethodPost, "/api/stock/nope/order", "", http.StatusNotFound},
		{"dashboard", http.MethodGet, "/api/dashboard", "", http.StatusOK},
		{"statistics bad days", http.MethodGet, "/api/statistics?days=week", "", http.StatusBadRequest},
		{"statistics", http.MethodGet, "/api/statistics?days=30&months=12", "", http.StatusOK},
		{"tax out of range", http.MethodPut, "/api/settings/tax", `{"vat_percent":"150"}`, http.StatusBadRequest},
		{"printer unknown", http.MethodPut, "/api/settings/printer", `{"type":"inkjet"}`, http.StatusBadRequest},
		{"store bad email", http.MethodPut, "/api/settings/store", `{"name":"Shop","email":"nope"}`, http.StatusBadRequest},
		{"preferences", http.MethodPut, "/api/settings/preferences", `{"dark_mode":true}`, http.StatusOK},
		{"webhook disabled", http.MethodGet, "/webhook?hub.mode=subscribe", "", http.StatusServiceUnavailable},
		{"send disabled", http.MethodPost, "/send-message", `{"to":"1","message":"hi"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, engine, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Fatalf("%s %s = %d, want %d (%s)", tt.method, tt.path, w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestProductFilter(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := do(t, engine, http.MethodGet, "/api/products?color=RED", "")
	var body struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
	}
	decode(t, w, &body)

	if body.Total != 2 || body.Items[0].Name != "Warm Hoodie" || body.Items[1].Name != "Sports Sneakers" {
		t.Errorf("filtered = %+v", body.Items)
	}
}

func TestRegisterFlow(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := do(t, engine, http.MethodPost, "/api/registers/till-1/invoice/scan", `{"barcode":"1234567890","quantity":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("scan = %d %s", w.Code, w.Body.String())
	}
	w = do(t, engine, http.MethodPost, "/api/registers/till-1/invoice/items", `{"product":"Red Hoodie (L)","unit_price":"499.99","quantity":1,"discount":"50"}`)
	var inv models.Invoice
	decode(t, w, &inv)
	if !inv.Totals.Total.Equal(decimal.RequireFromString("1196.97")) {
		t.Fatalf("total = %s, want 1196.97", inv.Totals.Total)
	}

	w = do(t, engine, http.MethodPost, "/api/registers/till-1/invoice/save", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("save = %d %s", w.Code, w.Body.String())
	}
	var saved models.Invoice
	decode(t, w, &saved)
	if !strings.HasSuffix(saved.Number, "-0001") || saved.Status != models.InvoiceStatusSaved {
		t.Errorf("saved = %s %s", saved.Number, saved.Status)
	}

	w = do(t, engine, http.MethodGet, "/api/products/p-90", "")
	var p models.Product
	decode(t, w, &p)
	if p.Quantity != 43 {
		t.Errorf("stock after sale = %d, want 43", p.Quantity)
	}

	w = do(t, engine, http.MethodGet, "/api/registers/till-1/invoice", "")
	var current models.Invoice
	decode(t, w, &current)
	if len(current.Items) != 0 || current.ID == saved.ID {
		t.Errorf("register not cleared: %+v", current)
	}

	w = do(t, engine, http.MethodGet, "/api/dashboard", "")
	var dash models.Dashboard
	decode(t, w, &dash)
	if !dash.SalesToday.Value.Equal(decimal.RequireFromString("1196.97")) {
		t.Errorf("dashboard sales = %s", dash.SalesToday.Value)
	}
}

func TestStatelessTotals(t *testing.T) {
	engine, _ := newTestEngine(t)

	tests := []struct {
		name string
		body string
		want [3]string
	}{
		{
			name: "order screen",
			body: `{"items":[{"unit_price":"299.99","quantity":2},{"unit_price":"499.99","quantity":1,"discount":"50"}]}`,
			want: [3]string{"1049.97", "147.00", "1196.97"},
		},
		{
			name: "explicit rate",
			body: `{"items":[{"unit_price":"100","quantity":1}],"tax_rate":"0.05"}`,
			want: [3]string{"100", "5", "105"},
		},
		{
			name: "empty",
			body: `{"items":[]}`,
			want: [3]string{"0", "0", "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, engine, http.MethodPost, "/api/invoices/totals", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d %s", w.Code, w.Body.String())
			}
			var got models.Totals
			decode(t, w, &got)
			for i, v := range []decimal.Decimal{got.Subtotal, got.Tax, got.Total} {
				if !v.Equal(decimal.RequireFromString(tt.want[i])) {
					t.Errorf("field %d = %s, want %s", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestTotals_RejectsInvalidInput(t *testing.T) {
	engine, _ := newTestEngine(t)

	tests := []struct {
		name string
		body string
	}{
		{"rate above one", `{"items":[{"unit_price":"1","quantity":1}],"tax_rate":"1.5"}`},
		{"negative rate", `{"items":[{"unit_price":"1","quantity":1}],"tax_rate":"-0.1"}`},
		{"zero quantity", `{"items":[{"unit_price":"1","quantity":0}]}`},
		{"negative quantity", `{"items":[{"unit_price":"1","quantity":-2}]}`},
		{"negative price", `{"items":[{"unit_price":"-5","quantity":1}]}`},
		{"negative discount", `{"items":[{"unit_price":"5","quantity":1,"discount":"-1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, engine, http.MethodPost, "/api/invoices/totals", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestStockAlertsAndOrder(t *testing.T) {
	engine, notifier := newTestEngine(t)

	w := do(t, engine, http.MethodGet, "/api/stock/alerts", "")
	var report models.LowStockReport
	decode(t, w, &report)
	if len(report.Items) != 5 || report.Summary.CriticalCount != 2 || report.Summary.WarningCount != 3 {
		t.Errorf("alerts = %d items, summary %+v", len(report.Items), report.Summary)
	}
	if report.Items[0].Severity != models.SeverityCritical {
		t.Errorf("first alert = %s, want critical", report.Items[0].Severity)
	}

	w = do(t, engine, http.MethodPost, "/api/stock/p-92/order", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("order = %d %s", w.Code, w.Body.String())
	}
	var req models.ReorderRequest
	decode(t, w, &req)
	if req.Requested != 17 || len(notifier.to) != 1 || notifier.to[0] != "supplier-1" {
		t.Errorf("reorder = %+v, sent to %v", req, notifier.to)
	}
}

func TestSettingsAffectRegisterTax(t *testing.T) {
	engine, _ := newTestEngine(t)

	if w := do(t, engine, http.MethodPut, "/api/settings/tax", `{"vat_percent":"10","tax_id":"123-456"}`); w.Code != http.StatusOK {
		t.Fatalf("tax = %d %s", w.Code, w.Body.String())
	}

	w := do(t, engine, http.MethodPost, "/api/registers/till-9/invoice/items", `{"product":"Scarf","unit_price":"100","quantity":1}`)
	var inv models.Invoice
	decode(t, w, &inv)
	if !inv.Totals.Tax.Equal(decimal.NewFromInt(10)) {
		t.Errorf("tax = %s, want 10", inv.Totals.Tax)
	}
}
