package models

type CustomerPaymentStatus string

const (
	CustomerPaid    CustomerPaymentStatus = "Paid"
	CustomerUnpaid  CustomerPaymentStatus = "Unpaid"
	CustomerPartial CustomerPaymentStatus = "Partial"
)

// Customer is a delivery address the company serves.
type Customer struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Address       string                `json:"address"`
	Contact       string                `json:"contact"`
	BottleBalance int                   `json:"bottleBalance"`
	PaymentStatus CustomerPaymentStatus `json:"paymentStatus"`
	CreatedAt     string                `json:"createdAt,omitempty"`
}
