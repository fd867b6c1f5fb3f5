package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront/internal/domain/cart"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
)

// PaymentCOD is the only payment method the store accepts.
const PaymentCOD = "cod"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmptyOrder     = errors.New("order must have at least one item")
	ErrInvalidStatus  = errors.New("invalid order status transition")
	ErrStatusConflict = errors.New("order is no longer in the expected status")
)

// validTransitions defines the forward-only status flow. There is no path
// back to an earlier status.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed},
	StatusConfirmed: {StatusDelivered},
	StatusDelivered: {}, // terminal
}

// CanTransition reports whether an order in from may move to target.
func CanTransition(from, target Status) bool {
	for _, s := range validTransitions[from] {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionError describes why from cannot move to target.
func TransitionError(from, target Status) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, from, target)
}

// Order is the immutable-at-creation snapshot written to the order sink at
// checkout. Only the status and its timestamps change afterwards.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	Items       []cart.Line     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	Shipping    ShippingInfo    `json:"shipping"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
}

// NewNumber generates the human-readable order number customers see in
// emails and receipts.
func NewNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}

// Build assembles a pending order from the cart contents at the moment of
// checkout. Totals are recomputed here, never carried over from an earlier
// page view.
func Build(lines []cart.Line, shipping ShippingInfo, quote Quote, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}

	items := make([]cart.Line, len(lines))
	copy(items, lines)

	return &Order{
		ID:          uuid.New().String(),
		OrderNumber: NewNumber(now),
		Items:       items,
		Subtotal:    quote.Subtotal,
		DeliveryFee: quote.DeliveryFee,
		Total:       quote.Total,
		Shipping:    shipping,
		Status:      StatusPending,
		CreatedAt:   now,
	}, nil
}
