package email

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
)

func testOrder() *order.Order {
	return &order.Order{
		ID:          "o-1",
		OrderNumber: "ORD-1700000000000",
		Items: []cart.Line{
			{Item: catalog.Item{Title: "Rose Toner", DiscountedPrice: decimal.NewFromInt(500)}, Quantity: 2},
		},
		Subtotal:    decimal.NewFromInt(1000),
		DeliveryFee: decimal.NewFromInt(199),
		Total:       decimal.NewFromInt(1199),
		Shipping: order.ShippingInfo{
			FirstName: "Asha",
			LastName:  "Perera",
			Email:     "asha@example.com",
			Address:   "12 Lake Road",
			City:      "Colombo",
			Zip:       "00100",
		},
		Status: order.StatusConfirmed,
	}
}

func TestBuildOrderConfirmationBody(t *testing.T) {
	body := BuildOrderConfirmationBody(testOrder())

	assert.Contains(t, body, "ORD-1700000000000")
	assert.Contains(t, body, "Asha")
	assert.Contains(t, body, "Rose Toner")
	assert.Contains(t, body, "12 Lake Road, Colombo - 00100")
	assert.Contains(t, body, "Rs. 1000.00") // item amount and subtotal
	assert.Contains(t, body, "Rs. 199.00")
	assert.Contains(t, body, "Rs. 1199.00")
}

func TestBuildOrderConfirmationBody_EscapesHTML(t *testing.T) {
	o := testOrder()
	o.Items[0].Item.Title = `<script>alert("x")</script>`

	body := BuildOrderConfirmationBody(o)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Rs. 1299.00", FormatAmount(decimal.NewFromInt(1299)))
	assert.Equal(t, "Rs. 0.50", FormatAmount(decimal.RequireFromString("0.5")))
}
