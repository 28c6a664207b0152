package repo

import (
	"github.com/rogerio-castellano/waterx/internal/kv"
	"github.com/rogerio-castellano/waterx/internal/models"
)

var (
	CustomerDescriptor = Descriptor[models.Customer]{
		Name:  "customer",
		Index: "customers",
		ID:    func(c *models.Customer) *string { return &c.ID },
	}
	ProductDescriptor = Descriptor[models.Product]{
		Name:  "product",
		Index: "products",
		ID:    func(p *models.Product) *string { return &p.ID },
	}
	OrderDescriptor = Descriptor[models.Order]{
		Name:  "order",
		Index: "orders",
		ID:    func(o *models.Order) *string { return &o.ID },
	}
	EmployeeDescriptor = Descriptor[models.Employee]{
		Name:  "employee",
		Index: "employees",
		ID:    func(e *models.Employee) *string { return &e.ID },
	}
	TransactionDescriptor = Descriptor[models.Transaction]{
		Name:  "transaction",
		Index: "transactions",
		ID:    func(t *models.Transaction) *string { return &t.ID },
	}
)

// Stores bundles one Store per entity type over a shared backend.
type Stores struct {
	Customers    *Store[models.Customer]
	Products     *Store[models.Product]
	Orders       *Store[models.Order]
	Employees    *Store[models.Employee]
	Transactions *Store[models.Transaction]
}

func NewStores(backend kv.Backend) *Stores {
	return &Stores{
		Customers:    NewStore(backend, CustomerDescriptor),
		Products:     NewStore(backend, ProductDescriptor),
		Orders:       NewStore(backend, OrderDescriptor),
		Employees:    NewStore(backend, EmployeeDescriptor),
		Transactions: NewStore(backend, TransactionDescriptor),
	}
}
