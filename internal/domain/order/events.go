package order

import "time"

// Event types published to the order event stream. The notifier reacts to
// OrderConfirmed; the projector consumes all of them.
const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderDelivered = "OrderDelivered"
)

// Event is the envelope written to Kafka for every order transition.
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	Order      *Order    `json:"order,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PlacedEvent carries the full order so downstream consumers never need to
// read the order sink.
func PlacedEvent(o *Order, now time.Time) Event {
	return Event{Type: EventOrderPlaced, OrderID: o.ID, Order: o, OccurredAt: now}
}

func ConfirmedEvent(o *Order, now time.Time) Event {
	return Event{Type: EventOrderConfirmed, OrderID: o.ID, Order: o, OccurredAt: now}
}

func DeliveredEvent(o *Order, now time.Time) Event {
	return Event{Type: EventOrderDelivered, OrderID: o.ID, Order: o, OccurredAt: now}
}
