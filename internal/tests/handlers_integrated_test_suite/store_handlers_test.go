package handlers_integrated_test_suite

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	handler "github.com/rogerio-castellano/waterx/internal/http/handlers"
	"github.com/rogerio-castellano/waterx/internal/metrics"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rogerio-castellano/waterx/internal/repo"
)

func TestCustomerLifecycle(t *testing.T) {
	forEachTarget(t, func(t *testing.T, tg *target) {
		tok := adminToken(t, tg.router)

		var ids []string
		for _, name := range []string{"Ali Raza", "Sana Malik", "Usman Tariq"} {
			w := doRequest(tg.router, http.MethodPost, "/api/customers", handler.CustomerRequest{
				Name:          name,
				Address:       "House 12, Street 4, Lahore",
				Contact:       "03001234567",
				BottleBalance: intPtr(2),
				PaymentStatus: "Unpaid",
			}, tok)
			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
			}
			ids = append(ids, decodeData[models.Customer](t, w).ID)
		}

		first := decodeData[repo.Page[models.Customer]](t, doRequest(tg.router, http.MethodGet, "/api/customers?limit=2", nil, tok))
		if len(first.Items) != 2 || first.Next == nil {
			t.Fatalf("expected a first page of 2 with a cursor, got %+v", first)
		}
		if first.Items[0].ID != ids[0] || first.Items[1].ID != ids[1] {
			t.Errorf("unexpected order: %+v", first.Items)
		}
		second := decodeData[repo.Page[models.Customer]](t, doRequest(tg.router, http.MethodGet, "/api/customers?limit=2&cursor="+*first.Next, nil, tok))
		if len(second.Items) != 1 || second.Items[0].ID != ids[2] || second.Next != nil {
			t.Errorf("unexpected second page: %+v", second)
		}

		w := doRequest(tg.router, http.MethodPut, "/api/customers/"+ids[1], map[string]any{"bottleBalance": 0, "paymentStatus": "Paid"}, tok)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if c := decodeData[models.Customer](t, w); c.BottleBalance != 0 || c.PaymentStatus != models.CustomerPaid || c.Name != "Sana Malik" {
			t.Errorf("unexpected customer after patch: %+v", c)
		}

		if w := doRequest(tg.router, http.MethodDelete, "/api/customers/"+ids[0], nil, tok); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w := doRequest(tg.router, http.MethodPut, "/api/customers/"+ids[0], map[string]any{"name": "Ghost"}, tok); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}

		all := decodeData[repo.Page[models.Customer]](t, doRequest(tg.router, http.MethodGet, "/api/customers", nil, tok))
		if len(all.Items) != 2 {
			t.Errorf("expected 2 customers, got %d", len(all.Items))
		}
	})
}

func TestFinanceAcrossBackends(t *testing.T) {
	forEachTarget(t, func(t *testing.T, tg *target) {
		tok := adminToken(t, tg.router)

		w := doRequest(tg.router, http.MethodPost, "/api/products", handler.ProductRequest{
			Name:  "19L Bottle",
			Price: 10,
			Stock: &handler.StockRequest{Full: intPtr(40), Empty: intPtr(0), Defective: intPtr(0)},
		}, tok)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		product := decodeData[models.Product](t, w)

		w = doRequest(tg.router, http.MethodPost, "/api/orders", handler.OrderRequest{
			CustomerID:    "walk-in",
			Items:         []handler.OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
			DeliveryDate:  "2026-10-16T10:00:00Z",
			Status:        "Delivered",
			PaymentStatus: "Unpaid",
		}, tok)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		w = doRequest(tg.router, http.MethodPost, "/api/transactions", handler.TransactionRequest{
			Description: "Fuel for van",
			Amount:      15,
			Date:        "2026-10-16T08:00:00Z",
			Type:        "Expense",
			Category:    "Fuel",
		}, tok)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}

		finance := decodeData[metrics.Finance](t, doRequest(tg.router, http.MethodGet, "/api/finance", nil, tok))
		want := metrics.FinanceSummary{Revenue: 20, Expenses: 15, NetProfit: 5, OutstandingPayments: 20}
		if finance.Summary != want {
			t.Errorf("expected %+v, got %+v", want, finance.Summary)
		}

		orders := decodeData[repo.Page[metrics.OrderDetails]](t, doRequest(tg.router, http.MethodGet, "/api/orders", nil, tok))
		if len(orders.Items) != 1 || orders.Items[0].CustomerName != "Unknown Customer" || orders.Items[0].ItemCount != 2 {
			t.Errorf("unexpected order details: %+v", orders.Items)
		}
	})
}

func TestConcurrentCreateSameIDKeepsFirstWriter(t *testing.T) {
	forEachTarget(t, func(t *testing.T, tg *target) {
		ctx := context.Background()
		const writers = 6

		var wg sync.WaitGroup
		var mu sync.Mutex
		created, conflicts := 0, 0
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := tg.stores.Products.Create(ctx, models.Product{ID: "p-race", Name: "19L Bottle", Price: 10})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case errors.Is(err, repo.ErrConflict):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if created != 1 || conflicts != writers-1 {
			t.Errorf("expected 1 create and %d conflicts, got %d and %d", writers-1, created, conflicts)
		}
		products, err := tg.stores.Products.All(ctx)
		if err != nil {
			t.Fatalf("list products: %v", err)
		}
		if len(products) != 1 {
			t.Errorf("expected one indexed product, got %d", len(products))
		}
	})
}
