package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name       string
		actual     string
		discounted string
		expected   int
	}{
		{"half price", "1000", "500", 50},
		{"no discount", "1000", "1000", 0},
		{"rounds down", "300", "200", 33},
		{"rounds up", "300", "199", 34},
		{"quarter off", "200", "150", 25},
		{"zero actual price", "0", "0", 0},
		{"full discount", "800", "0", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct := DiscountPercent(
				decimal.RequireFromString(tt.actual),
				decimal.RequireFromString(tt.discounted))
			assert.Equal(t, tt.expected, pct)
		})
	}
}

func TestItem_Validate(t *testing.T) {
	valid := Item{
		Title:           "Aloe Gel",
		ActualPrice:     decimal.NewFromInt(1000),
		DiscountedPrice: decimal.NewFromInt(800),
	}
	assert.NoError(t, valid.Validate())

	missingTitle := valid
	missingTitle.Title = ""
	assert.ErrorIs(t, missingTitle.Validate(), ErrMissingTitle)

	negativePrice := valid
	negativePrice.ActualPrice = decimal.NewFromInt(-1)
	assert.ErrorIs(t, negativePrice.Validate(), ErrInvalidPrice)

	discountAbovePrice := valid
	discountAbovePrice.DiscountedPrice = decimal.NewFromInt(1200)
	assert.ErrorIs(t, discountAbovePrice.Validate(), ErrInvalidDiscount)

	negativeDiscount := valid
	negativeDiscount.DiscountedPrice = decimal.NewFromInt(-5)
	assert.ErrorIs(t, negativeDiscount.Validate(), ErrInvalidDiscount)
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c.Slug), c.Slug)
	}
	assert.False(t, ValidCategory("electronics"))
	assert.False(t, ValidCategory(""))
}
