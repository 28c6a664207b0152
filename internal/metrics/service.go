package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerio-castellano/waterx/internal/models"
	"golang.org/x/sync/errgroup"
)

// Lister is the read side of an entity store.
type Lister[T any] interface {
	All(ctx context.Context) ([]T, error)
}

// Service fetches the collections an aggregation needs concurrently and hands
// them to the pure compute functions. Fetch errors are returned unchanged.
type Service struct {
	orders       Lister[models.Order]
	customers    Lister[models.Customer]
	products     Lister[models.Product]
	transactions Lister[models.Transaction]
	now          func() time.Time
}

func NewService(
	orders Lister[models.Order],
	customers Lister[models.Customer],
	products Lister[models.Product],
	transactions Lister[models.Transaction],
) *Service {
	return &Service{
		orders:       orders,
		customers:    customers,
		products:     products,
		transactions: transactions,
		now:          time.Now,
	}
}

// SetClock replaces the time source used for "today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func fetch[T any](ctx context.Context, g *errgroup.Group, l Lister[T], name string, dst *[]T) {
	g.Go(func() error {
		items, err := l.All(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", name, err)
		}
		*dst = items
		return nil
	})
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		orders    []models.Order
		customers []models.Customer
		products  []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch(gctx, g, s.orders, "orders", &orders)
	fetch(gctx, g, s.customers, "customers", &customers)
	fetch(gctx, g, s.products, "products", &products)
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return ComputeDashboard(orders, customers, products, s.now()), nil
}

func (s *Service) Finance(ctx context.Context) (Finance, error) {
	var (
		orders       []models.Order
		transactions []models.Transaction
		products     []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch(gctx, g, s.orders, "orders", &orders)
	fetch(gctx, g, s.transactions, "transactions", &transactions)
	fetch(gctx, g, s.products, "products", &products)
	if err := g.Wait(); err != nil {
		return Finance{}, err
	}

	return ComputeFinance(orders, transactions, products), nil
}

// OrdersWithDetails lists every order with its customer name and item total.
func (s *Service) OrdersWithDetails(ctx context.Context, orders []models.Order) ([]OrderDetails, error) {
	customers, err := s.customers.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return WithDetails(orders, customers), nil
}

// Deliveries lists the orders still to be delivered, with details.
func (s *Service) Deliveries(ctx context.Context) ([]OrderDetails, error) {
	var (
		orders    []models.Order
		customers []models.Customer
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch(gctx, g, s.orders, "orders", &orders)
	fetch(gctx, g, s.customers, "customers", &customers)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return WithDetails(PendingDeliveries(orders), customers), nil
}
