package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/waterx/internal/auth"
	"github.com/rogerio-castellano/waterx/internal/events"
	api "github.com/rogerio-castellano/waterx/internal/http"
	"github.com/rogerio-castellano/waterx/internal/http/ban"
	handler "github.com/rogerio-castellano/waterx/internal/http/handlers"
	rl "github.com/rogerio-castellano/waterx/internal/http/rate_limiter"
	"github.com/rogerio-castellano/waterx/internal/kv"
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/rogerio-castellano/waterx/internal/repo"
	"github.com/rogerio-castellano/waterx/internal/seed"
	"github.com/rs/zerolog"
)

const (
	adminEmail    = "alyan@waterx.pk"
	adminPassword = "Waterx@123"
)

// Friday afternoon; the week's labels run Sat..Fri.
var fixedNow = time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

var (
	token     string
	backend   *kv.Memory
	stores    *repo.Stores
	server    *handler.Server
	publisher *recordingPublisher
	lockout   *ban.MemoryLockout
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.Key()
	}
	return keys
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	p.events = nil
	p.mu.Unlock()
}

func init() {
	setupTestServer()

	var err error
	token, err = generateToken(newRouter(), adminEmail, adminPassword)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestServer() {
	backend = kv.NewMemory()
	stores = repo.NewStores(backend)
	publisher = &recordingPublisher{}
	lockout = ban.NewMemoryLockout(ban.DefaultLimit, ban.DefaultWindow)

	seeder := seed.NewSeeder(stores.Employees, &seed.MutexLocker{}, seed.Admin{
		Name:     "Alyan Ahmed",
		Email:    adminEmail,
		Password: adminPassword,
	})
	server = handler.NewServer(handler.Deps{
		Stores:    stores,
		Auth:      auth.NewService(stores.Employees, auth.NewTokens("test-secret", time.Hour)),
		Lockout:   lockout,
		Seeder:    seeder,
		Publisher: publisher,
	})
	server.SetClock(func() time.Time { return fixedNow })
}

func newRouter() http.Handler {
	return newRouterWithLimiter(rl.New(1000, 1000))
}

func newRouterWithLimiter(limiter *rl.Limiter) http.Handler {
	return api.NewRouter(server, limiter, zerolog.Nop())
}

func clearAll() {
	backend.Clear()
	publisher.reset()
}

type envelope struct {
	Success bool                      `json:"success"`
	Data    json.RawMessage           `json:"data"`
	Error   string                    `json:"error"`
	Errors  []handler.ValidationError `json:"errors"`
}

func doRequest(r http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatalf("expected success, got error %q (%d)", env.Error, w.Code)
	}
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("error decoding data: %v", err)
	}
	return v
}

func hasFieldError(errs []handler.ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func generateToken(r http.Handler, email, password string) (string, error) {
	w := doRequest(r, http.MethodPost, "/api/auth/login", handler.LoginRequest{Email: email, Password: password}, "")
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with %d: %s", w.Code, w.Body.String())
	}

	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	var resp handler.LoginResult
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

// employeeToken creates an employee with the given role and logs in as them.
func employeeToken(t *testing.T, r http.Handler, email string, role models.Role) (string, models.Employee) {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/employees", handler.EmployeeRequest{
		Name:     "Test " + string(role),
		Email:    email,
		Phone:    "03001112222",
		Role:     string(role),
		Status:   string(models.EmployeeActive),
		Password: "secret1",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("employee creation failed: %d %s", w.Code, w.Body.String())
	}
	employee := decodeData[models.Employee](t, w)

	tok, err := generateToken(r, email, "secret1")
	if err != nil {
		t.Fatalf("employee login failed: %v", err)
	}
	return tok, employee
}

func intPtr(v int) *int { return &v }

func stock(full, empty, defective int) *handler.StockRequest {
	return &handler.StockRequest{Full: intPtr(full), Empty: intPtr(empty), Defective: intPtr(defective)}
}

func createCustomer(t *testing.T, r http.Handler, name string) models.Customer {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/customers", handler.CustomerRequest{
		Name:          name,
		Address:       "House 12, Street 4, Lahore",
		Contact:       "03001234567",
		BottleBalance: intPtr(0),
		PaymentStatus: "Unpaid",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("customer creation failed: %d %s", w.Code, w.Body.String())
	}
	return decodeData[models.Customer](t, w)
}

func createProduct(t *testing.T, r http.Handler, name string, price float64, full int) models.Product {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/products", handler.ProductRequest{
		Name:  name,
		Price: price,
		Stock: stock(full, 0, 0),
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("product creation failed: %d %s", w.Code, w.Body.String())
	}
	return decodeData[models.Product](t, w)
}

func createOrder(t *testing.T, r http.Handler, req handler.OrderRequest) models.Order {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/orders", req, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("order creation failed: %d %s", w.Code, w.Body.String())
	}
	return decodeData[models.Order](t, w)
}
