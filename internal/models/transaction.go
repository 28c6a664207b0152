package models

type TransactionType string

const (
	TransactionRevenue TransactionType = "Revenue"
	TransactionExpense TransactionType = "Expense"
)

type TransactionCategory string

const (
	CategorySales       TransactionCategory = "Sales"
	CategoryFuel        TransactionCategory = "Fuel"
	CategoryRent        TransactionCategory = "Rent"
	CategorySalaries    TransactionCategory = "Salaries"
	CategoryMaintenance TransactionCategory = "Maintenance"
	CategoryOther       TransactionCategory = "Other"
)

// Transaction is a manual finance entry.
type Transaction struct {
	ID          string              `json:"id"`
	OrderID     string              `json:"orderId,omitempty"`
	Type        TransactionType     `json:"type"`
	Amount      float64             `json:"amount"`
	Date        string              `json:"date"`
	Description string              `json:"description"`
	Category    TransactionCategory `json:"category"`
}
