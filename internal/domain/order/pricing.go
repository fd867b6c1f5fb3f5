package order

import "github.com/shopspring/decimal"

// Pricing holds the delivery fee rules. The threshold is inclusive: a
// subtotal exactly at the threshold ships free.
type Pricing struct {
	FreeDeliveryThreshold decimal.Decimal
	FlatDeliveryFee       decimal.Decimal
}

func NewPricing(freeDeliveryThreshold, flatDeliveryFee int64) Pricing {
	return Pricing{
		FreeDeliveryThreshold: decimal.NewFromInt(freeDeliveryThreshold),
		FlatDeliveryFee:       decimal.NewFromInt(flatDeliveryFee),
	}
}

// Quote is the checkout total computation for one cart state.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Quote computes the delivery fee and final total for a subtotal. Pure and
// deterministic; callers recompute it at submission so last-moment cart
// edits are always reflected.
func (p Pricing) Quote(subtotal decimal.Decimal) Quote {
	fee := p.FlatDeliveryFee
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}
