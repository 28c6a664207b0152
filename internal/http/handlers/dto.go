package handlers

import "github.com/rogerio-castellano/waterx/internal/models"

type StockRequest struct {
	Full      *int `json:"full" validate:"required,min=0"`
	Empty     *int `json:"empty" validate:"required,min=0"`
	Defective *int `json:"defective" validate:"required,min=0"`
}

func (s StockRequest) model() models.Stock {
	return models.Stock{Full: *s.Full, Empty: *s.Empty, Defective: *s.Defective}
}

type CustomerRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Address       string `json:"address" validate:"required,min=5"`
	Contact       string `json:"contact" validate:"required,min=10"`
	BottleBalance *int   `json:"bottleBalance" validate:"required,min=0"`
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=Paid Unpaid Partial"`
}

type CustomerUpdateRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Address       *string `json:"address,omitempty" validate:"omitempty,min=5"`
	Contact       *string `json:"contact,omitempty" validate:"omitempty,min=10"`
	BottleBalance *int    `json:"bottleBalance,omitempty" validate:"omitempty,min=0"`
	PaymentStatus *string `json:"paymentStatus,omitempty" validate:"omitempty,oneof=Paid Unpaid Partial"`
}

type ProductRequest struct {
	Name  string        `json:"name" validate:"required,min=2"`
	Price float64       `json:"price" validate:"gt=0"`
	Stock *StockRequest `json:"stock" validate:"required"`
}

type ProductUpdateRequest struct {
	Name  *string       `json:"name,omitempty" validate:"omitempty,min=2"`
	Price *float64      `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock *StockRequest `json:"stock,omitempty" validate:"omitempty"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type OrderRequest struct {
	CustomerID       string             `json:"customerId" validate:"required"`
	Items            []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryDate     string             `json:"deliveryDate" validate:"required,datetime3339"`
	Status           string             `json:"status" validate:"required,oneof=Pending Delivered Cancelled"`
	PaymentStatus    string             `json:"paymentStatus" validate:"required,oneof=Paid Unpaid"`
	AssignedDriverID string             `json:"assignedDriverId,omitempty"`
	Notes            string             `json:"notes,omitempty"`
}

type OrderUpdateRequest struct {
	CustomerID       *string             `json:"customerId,omitempty" validate:"omitempty,min=1"`
	Items            *[]OrderItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	DeliveryDate     *string             `json:"deliveryDate,omitempty" validate:"omitempty,datetime3339"`
	Status           *string             `json:"status,omitempty" validate:"omitempty,oneof=Pending Delivered Cancelled"`
	PaymentStatus    *string             `json:"paymentStatus,omitempty" validate:"omitempty,oneof=Paid Unpaid"`
	AssignedDriverID *string             `json:"assignedDriverId,omitempty"`
	Notes            *string             `json:"notes,omitempty"`
}

func orderItems(items []OrderItemRequest) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	for i, it := range items {
		out[i] = models.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}

type EmployeeRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=10"`
	Role     string `json:"role" validate:"required,oneof=Admin Manager Driver"`
	Status   string `json:"status" validate:"required,oneof=Active Inactive"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

type EmployeeUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=Admin Manager Driver"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive"`
	Password string  `json:"password,omitempty" validate:"omitempty,min=6"`
}

type TransactionRequest struct {
	Description string  `json:"description" validate:"required,min=2"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"required,datetime3339"`
	Type        string  `json:"type" validate:"required,oneof=Revenue Expense"`
	Category    string  `json:"category" validate:"required,oneof=Sales Fuel Rent Salaries Maintenance Other"`
	OrderID     string  `json:"orderId,omitempty"`
}

type TransactionUpdateRequest struct {
	Description *string  `json:"description,omitempty" validate:"omitempty,min=2"`
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Date        *string  `json:"date,omitempty" validate:"omitempty,datetime3339"`
	Type        *string  `json:"type,omitempty" validate:"omitempty,oneof=Revenue Expense"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,oneof=Sales Fuel Rent Salaries Maintenance Other"`
	OrderID     *string  `json:"orderId,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string          `json:"token"`
	User  models.Employee `json:"user"`
}

type DeleteResult struct {
	ID string `json:"id"`
}

type HealthResult struct {
	Status string `json:"status"`
}
