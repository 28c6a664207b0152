package metrics

import (
	"testing"

	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetails(t *testing.T) {
	customers := []models.Customer{{ID: "c1", Name: "Ali"}}
	orders := []models.Order{
		{ID: "o1", CustomerID: "c1", Items: []models.OrderItem{item("P1", 2), item("P2", 3)}},
		{ID: "o2", CustomerID: "gone", Items: []models.OrderItem{item("P1", 1)}},
	}

	got := WithDetails(orders, customers)

	require.Len(t, got, 2)
	assert.Equal(t, "Ali", got[0].CustomerName)
	assert.Equal(t, 5, got[0].ItemCount)
	assert.Equal(t, "Unknown Customer", got[1].CustomerName)
	assert.Equal(t, 1, got[1].ItemCount)
}

func TestPendingDeliveries(t *testing.T) {
	orders := []models.Order{
		{ID: "o1", Status: models.OrderPending},
		{ID: "o2", Status: models.OrderDelivered},
		{ID: "o3", Status: models.OrderCancelled},
	}

	got := PendingDeliveries(orders)

	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
}
