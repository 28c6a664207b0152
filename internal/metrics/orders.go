package metrics

import "github.com/rogerio-castellano/waterx/internal/models"

const unknownCustomer = "Unknown Customer"

// OrderDetails is an order with the fields the order and delivery tables display.
type OrderDetails struct {
	models.Order
	CustomerName string `json:"customerName"`
	ItemCount    int    `json:"totalItems"`
}

// WithDetails resolves customer names and item totals for each order.
func WithDetails(orders []models.Order, customers []models.Customer) []OrderDetails {
	names := make(map[string]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	out := make([]OrderDetails, len(orders))
	for i, o := range orders {
		name, ok := names[o.CustomerID]
		if !ok || name == "" {
			name = unknownCustomer
		}
		out[i] = OrderDetails{Order: o, CustomerName: name, ItemCount: o.TotalItems()}
	}
	return out
}

// PendingDeliveries keeps the orders that are neither delivered nor cancelled.
func PendingDeliveries(orders []models.Order) []models.Order {
	pending := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != models.OrderDelivered && o.Status != models.OrderCancelled {
			pending = append(pending, o)
		}
	}
	return pending
}
