package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/infrastructure/reporting"
)

func TestWriteOrders(t *testing.T) {
	rows := []reporting.OrderRow{
		{
			ID:          "o-1",
			OrderNumber: "ORD-1700000000000",
			Status:      "pending",
			Customer:    "Asha Perera",
			Email:       "asha@example.com",
			Phone:       "0771234567",
			Address:     "12 Lake Road, Colombo, 00100",
			Payment:     "cod",
			Items: []cart.Line{
				{Item: catalog.Item{Title: "Soap"}, Quantity: 2},
				{Item: catalog.Item{Title: "Oil"}, Quantity: 1},
			},
			Total:    decimal.RequireFromString("1299"),
			PlacedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"id", "orderNumber", "status", "customer", "email", "phone",
		"address", "payment", "items", "total", "placedAt",
	}, records[0])

	assert.Equal(t, []string{
		"o-1", "ORD-1700000000000", "pending", "Asha Perera",
		"asha@example.com", "0771234567", "12 Lake Road, Colombo, 00100",
		"cod", "Soap × 2; Oil × 1", "1299.00", "2025-06-01 10:30:00",
	}, records[1])
}

func TestWriteOrders_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1) // header only
}
