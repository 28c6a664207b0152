// Package metrics computes the derived views of the dashboard: KPIs, the
// weekly sales series, recent activity and the finance summary. Every function
// here works on collections already in memory and performs no I/O.
package metrics

import (
	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/shopspring/decimal"
)

type FinanceSummary struct {
	Revenue             float64 `json:"revenue"`
	Expenses            float64 `json:"expenses"`
	NetProfit           float64 `json:"netProfit"`
	OutstandingPayments float64 `json:"outstandingPayments"`
}

type Finance struct {
	Summary      FinanceSummary       `json:"summary"`
	Transactions []models.Transaction `json:"transactions"`
}

// PriceList maps product ids to unit prices.
type PriceList map[string]decimal.Decimal

func NewPriceList(products []models.Product) PriceList {
	prices := make(PriceList, len(products))
	for _, p := range products {
		prices[p.ID] = decimal.NewFromFloat(p.Price)
	}
	return prices
}

// OrderValue is the sum of quantity × unit price over the order lines.
// A product missing from the price list counts as free.
func (pl PriceList) OrderValue(o models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		price, ok := pl[item.ProductID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// receivables returns the value of delivered orders and the part of it still unpaid.
func receivables(orders []models.Order, prices PriceList) (revenue, outstanding decimal.Decimal) {
	revenue, outstanding = decimal.Zero, decimal.Zero
	for _, o := range orders {
		if o.Status != models.OrderDelivered {
			continue
		}
		value := prices.OrderValue(o)
		revenue = revenue.Add(value)
		if o.PaymentStatus == models.PaymentUnpaid {
			outstanding = outstanding.Add(value)
		}
	}
	return revenue, outstanding
}

// ComputeFinance builds the finance summary. Revenue comes from delivered
// orders, expenses from Expense transactions; the transactions are returned as given.
func ComputeFinance(orders []models.Order, transactions []models.Transaction, products []models.Product) Finance {
	revenue, outstanding := receivables(orders, NewPriceList(products))

	expenses := decimal.Zero
	for _, tx := range transactions {
		if tx.Type == models.TransactionExpense {
			expenses = expenses.Add(decimal.NewFromFloat(tx.Amount))
		}
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return Finance{
		Summary: FinanceSummary{
			Revenue:             revenue.InexactFloat64(),
			Expenses:            expenses.InexactFloat64(),
			NetProfit:           revenue.Sub(expenses).InexactFloat64(),
			OutstandingPayments: outstanding.InexactFloat64(),
		},
		Transactions: transactions,
	}
}
