package models

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderDelivered OrderStatus = "Delivered"
	OrderCancelled OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "Paid"
	PaymentUnpaid PaymentStatus = "Unpaid"
)

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Order is a customer request for one or more products on a delivery date.
type Order struct {
	ID               string        `json:"id"`
	CustomerID       string        `json:"customerId"`
	Items            []OrderItem   `json:"items"`
	DeliveryDate     string        `json:"deliveryDate"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	AssignedDriverID string        `json:"assignedDriverId,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	CreatedAt        string        `json:"createdAt,omitempty"`
}

// TotalItems sums the quantities of every line.
func (o Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
