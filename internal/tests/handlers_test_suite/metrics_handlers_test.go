package handlers_test_suite

import (
	"net/http"
	"testing"

	"github.com/rogerio-castellano/waterx/internal/http/handlers"
	"github.com/rogerio-castellano/waterx/internal/metrics"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rogerio-castellano/waterx/internal/repo"
)

func createTransaction(t *testing.T, r http.Handler, req handlers.TransactionRequest) models.Transaction {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/transactions", req, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("transaction creation failed: %d %s", w.Code, w.Body.String())
	}
	return decodeData[models.Transaction](t, w)
}

func TestGetFinanceHandler(t *testing.T) {
	t.Cleanup(clearAll)
	clearAll()
	r := newRouter()
	c := createCustomer(t, r, "Ali Raza")
	p := createProduct(t, r, "19L Bottle", 10, 40)

	createOrder(t, r, orderRequest(c.ID, models.OrderDelivered, handlers.OrderItemRequest{ProductID: p.ID, Quantity: 2}))
	createOrder(t, r, orderRequest(c.ID, models.OrderPending, handlers.OrderItemRequest{ProductID: p.ID, Quantity: 7}))
	createTransaction(t, r, handlers.TransactionRequest{
		Description: "Fuel for van",
		Amount:      15,
		Date:        "2026-10-16T08:00:00Z",
		Type:        "Expense",
		Category:    "Fuel",
	})
	createTransaction(t, r, handlers.TransactionRequest{
		Description: "Cash sale",
		Amount:      100,
		Date:        "2026-10-16T09:00:00Z",
		Type:        "Revenue",
		Category:    "Sales",
	})

	w := doRequest(r, http.MethodGet, "/api/finance", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	finance := decodeData[metrics.Finance](t, w)

	want := metrics.FinanceSummary{Revenue: 20, Expenses: 15, NetProfit: 5, OutstandingPayments: 20}
	if finance.Summary != want {
		t.Errorf("expected %+v, got %+v", want, finance.Summary)
	}
	if len(finance.Transactions) != 2 {
		t.Errorf("expected 2 transactions, got %d", len(finance.Transactions))
	}
}

func TestGetFinanceHandler_Empty(t *testing.T) {
	t.Cleanup(clearAll)
	clearAll()
	r := newRouter()

	w := doRequest(r, http.MethodGet, "/api/finance", nil, token)
	finance := decodeData[metrics.Finance](t, w)
	if finance.Summary != (metrics.FinanceSummary{}) {
		t.Errorf("expected zero summary, got %+v", finance.Summary)
	}
	if finance.Transactions == nil {
		t.Error("expected an empty transactions array, got null")
	}
}

func TestGetDashboardHandler(t *testing.T) {
	t.Cleanup(clearAll)
	clearAll()
	r := newRouter()
	c := createCustomer(t, r, "Ali Raza")
	p := createProduct(t, r, "19L Bottle", 10, 40)

	delivered := orderRequest(c.ID, models.OrderDelivered, handlers.OrderItemRequest{ProductID: p.ID, Quantity: 3})
	createOrder(t, r, delivered)

	cancelled := orderRequest(c.ID, models.OrderCancelled, handlers.OrderItemRequest{ProductID: p.ID, Quantity: 1})
	createOrder(t, r, cancelled)

	yesterday := orderRequest(c.ID, models.OrderPending, handlers.OrderItemRequest{ProductID: p.ID, Quantity: 2})
	yesterday.DeliveryDate = "2026-10-15T10:00:00Z"
	createOrder(t, r, yesterday)

	w := doRequest(r, http.MethodGet, "/api/dashboard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	dashboard := decodeData[struct {
		KPIs           metrics.KPIs         `json:"kpis"`
		SalesData      []metrics.SalesPoint `json:"salesData"`
		RecentActivity []map[string]any     `json:"recentActivity"`
	}](t, w)

	wantKPIs := metrics.KPIs{
		BottlesInStock:  40,
		OrdersToday:     2,
		TotalCustomers:  1,
		PendingPayments: 30,
		DeliveriesToday: 1,
	}
	if dashboard.KPIs != wantKPIs {
		t.Errorf("expected %+v, got %+v", wantKPIs, dashboard.KPIs)
	}

	if len(dashboard.SalesData) != 7 {
		t.Fatalf("expected 7 days, got %d", len(dashboard.SalesData))
	}
	if first := dashboard.SalesData[0]; first.Name != "Sat" || first.Sales != 0 {
		t.Errorf("unexpected first day: %+v", first)
	}
	if today := dashboard.SalesData[6]; today != (metrics.SalesPoint{Name: "Fri", Sales: 6, Revenue: 30}) {
		t.Errorf("unexpected today bucket: %+v", today)
	}

	if len(dashboard.RecentActivity) != 3 {
		t.Fatalf("expected 2 orders and 1 customer, got %d", len(dashboard.RecentActivity))
	}
	counts := map[any]int{}
	for _, a := range dashboard.RecentActivity {
		counts[a["type"]]++
		if a["timestamp"] != fixedNow.Format("2006-01-02T15:04:05Z07:00") {
			t.Errorf("unexpected timestamp %v", a["timestamp"])
		}
	}
	if counts["order"] != 2 || counts["customer"] != 1 {
		t.Errorf("unexpected activity mix: %v", counts)
	}
}

func TestTransactionHandlers(t *testing.T) {
	t.Cleanup(clearAll)
	clearAll()
	r := newRouter()

	w := doRequest(r, http.MethodPost, "/api/transactions", handlers.TransactionRequest{
		Description: "x",
		Date:        "yesterday",
		Type:        "Gift",
		Category:    "Snacks",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	for _, f := range []string{"description", "amount", "date", "type", "category"} {
		if !hasFieldError(env.Errors, f) {
			t.Errorf("expected error for field %q, got %+v", f, env.Errors)
		}
	}

	tx := createTransaction(t, r, handlers.TransactionRequest{
		Description: "October rent",
		Amount:      25000,
		Date:        "2026-10-01T00:00:00Z",
		Type:        "Expense",
		Category:    "Rent",
	})

	w = doRequest(r, http.MethodPut, "/api/transactions/"+tx.ID, map[string]any{"amount": 24000.5}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if updated := decodeData[models.Transaction](t, w); updated.Amount != 24000.5 || updated.Category != models.CategoryRent {
		t.Errorf("unexpected transaction: %+v", updated)
	}

	page := decodeData[repo.Page[models.Transaction]](t, doRequest(r, http.MethodGet, "/api/transactions", nil, token))
	if len(page.Items) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(page.Items))
	}

	if w := doRequest(r, http.MethodDelete, "/api/transactions/"+tx.ID, nil, token); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	r := newRouter()
	w := doRequest(r, http.MethodGet, "/api/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if h := decodeData[handlers.HealthResult](t, w); h.Status != "ok" {
		t.Errorf("unexpected status %q", h.Status)
	}
}
