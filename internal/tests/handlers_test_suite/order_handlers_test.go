package handlers_test_suite

import (
	"net/http"
	"testing"

	"github.com/rogerio-castellano/waterx/internal/http/handlers"
	"github.com/rogerio-castellano/waterx/internal/metrics"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rogerio-castellano/waterx/internal/repo"
)

func orderRequest(customerID string, status models.OrderStatus, items ...handlers.OrderItemRequest) handlers.OrderRequest {
	return handlers.OrderRequest{
		CustomerID:    customerID,
		Items:         items,
		DeliveryDate:  "2026-10-16T10:00:00.000Z",
		Status:        string(status),
		PaymentStatus: string(models.PaymentUnpaid),
	}
}

func TestCreateOrderHandler_Valid(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()
	c := createCustomer(t, r, "Ali Raza")
	p := createProduct(t, r, "19L Bottle", 150, 40)

	req := orderRequest(c.ID, models.OrderPending, handlers.OrderItemRequest{ProductID: p.ID, Quantity: 2})
	req.Notes = "Ring twice"
	o := createOrder(t, r, req)

	if o.ID == "" || o.CustomerID != c.ID || o.Status != models.OrderPending || o.Notes != "Ring twice" {
		t.Errorf("unexpected order: %+v", o)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Errorf("unexpected items: %+v", o.Items)
	}
	if o.CreatedAt == "" {
		t.Error("expected createdAt to be set")
	}
}

func TestCreateOrderHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()

	item := handlers.OrderItemRequest{ProductID: "p1", Quantity: 1}
	tests := []struct {
		name   string
		mutate func(*handlers.OrderRequest)
		fields []string
	}{
		{"no items", func(o *handlers.OrderRequest) { o.Items = nil }, []string{"items"}},
		{"empty items", func(o *handlers.OrderRequest) { o.Items = []handlers.OrderItemRequest{} }, []string{"items"}},
		{"zero quantity", func(o *handlers.OrderRequest) { o.Items = []handlers.OrderItemRequest{{ProductID: "p1"}} }, []string{"items[0].quantity"}},
		{"missing product", func(o *handlers.OrderRequest) { o.Items = []handlers.OrderItemRequest{item, {Quantity: 1}} }, []string{"items[1].productId"}},
		{"date only", func(o *handlers.OrderRequest) { o.DeliveryDate = "2026-10-16" }, []string{"deliveryDate"}},
		{"bad status", func(o *handlers.OrderRequest) { o.Status = "Lost" }, []string{"status"}},
		{"bad payment", func(o *handlers.OrderRequest) { o.PaymentStatus = "Partial" }, []string{"paymentStatus"}},
		{"no customer", func(o *handlers.OrderRequest) { o.CustomerID = "" }, []string{"customerId"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := orderRequest("c1", models.OrderPending, item)
			tt.mutate(&req)
			w := doRequest(r, http.MethodPost, "/api/orders", req, token)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			env := decodeEnvelope(t, w)
			for _, f := range tt.fields {
				if !hasFieldError(env.Errors, f) {
					t.Errorf("expected error for field %q, got %+v", f, env.Errors)
				}
			}
		})
	}
}

func TestGetOrdersHandler_WithDetails(t *testing.T) {
	t.Cleanup(clearAll)
	clearAll()
	r := newRouter()
	c := createCustomer(t, r, "Ali Raza")
	p := createProduct(t, r, "19L Bottle", 150, 40)

	createOrder(t, r, orderRequest(c.ID, models.OrderPending,
		handlers.OrderItemRequest{ProductID: p.ID, Quantity: 2},
		handlers.OrderItemRequest{ProductID: p.ID, Quantity: 3},
	))
	createOrder(t, r, orderRequest("deleted-customer", models.OrderDelivered,
		handlers.OrderItemRequest{ProductID: p.ID, Quantity: 1},
	))

	page := decodeData[repo.Page[metrics.OrderDetails]](t, doRequest(r, http.MethodGet, "/api/orders", nil, token))
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Items))
	}
	if page.Items[0].CustomerName != "Ali Raza" || page.Items[0].ItemCount != 5 {
		t.Errorf("unexpected details: %+v", page.Items[0])
	}
	if page.Items[1].CustomerName != "Unknown Customer" || page.Items[1].ItemCount != 1 {
		t.Errorf("unexpected details: %+v", page.Items[1])
	}

	limited := decodeData[repo.Page[metrics.OrderDetails]](t, doRequest(r, http.MethodGet, "/api/orders?limit=1", nil, token))
	if len(limited.Items) != 1 || limited.Next == nil {
		t.Errorf("expected one order and a cursor, got %d items", len(limited.Items))
	}
}

func TestUpdateOrderHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()
	c := createCustomer(t, r, "Ali Raza")
	o := createOrder(t, r, orderRequest(c.ID, models.OrderPending, handlers.OrderItemRequest{ProductID: "p1", Quantity: 2}))

	w := doRequest(r, http.MethodPut, "/api/orders/"+o.ID, map[string]any{"status": "Delivered", "paymentStatus": "Paid"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decodeData[models.Order](t, w)
	if updated.Status != models.OrderDelivered || updated.PaymentStatus != models.PaymentPaid {
		t.Errorf("patch not applied: %+v", updated)
	}
	if len(updated.Items) != 1 || updated.CreatedAt != o.CreatedAt || updated.CustomerID != c.ID {
		t.Errorf("untouched fields changed: %+v", updated)
	}

	w = doRequest(r, http.MethodPut, "/api/orders/"+o.ID, map[string]any{"items": []any{}}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty items, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPut, "/api/orders/"+o.ID, map[string]any{}, token)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for empty patch, got %d", w.Code)
	}
}

func TestGetDeliveriesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	clearAll()
	r := newRouter()
	c := createCustomer(t, r, "Ali Raza")
	item := handlers.OrderItemRequest{ProductID: "p1", Quantity: 1}

	pending := createOrder(t, r, orderRequest(c.ID, models.OrderPending, item))
	createOrder(t, r, orderRequest(c.ID, models.OrderDelivered, item))
	createOrder(t, r, orderRequest(c.ID, models.OrderCancelled, item))

	page := decodeData[repo.Page[metrics.OrderDetails]](t, doRequest(r, http.MethodGet, "/api/deliveries", nil, token))
	if len(page.Items) != 1 || page.Items[0].ID != pending.ID {
		t.Fatalf("expected only the pending order, got %+v", page.Items)
	}
	if page.Items[0].CustomerName != "Ali Raza" {
		t.Errorf("expected customer name, got %q", page.Items[0].CustomerName)
	}
	if page.Next != nil {
		t.Error("deliveries are not paginated")
	}
}
