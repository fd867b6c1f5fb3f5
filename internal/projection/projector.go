// Package projection folds order events into the reporting read models.
package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain/order"
)

// ReadStore is the slice of the reporting store the projector writes to.
type ReadStore interface {
	Upsert(o *order.Order) error
	SetStatus(id string, status order.Status) error
}

// Projector applies order events to the read store. Projection is async:
// the read models may trail the order sink slightly.
type Projector struct {
	readStore ReadStore
	logger    *zap.Logger
}

func NewProjector(readStore ReadStore, logger *zap.Logger) *Projector {
	return &Projector{readStore: readStore, logger: logger}
}

// HandleEvent processes one event from the stream.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("unmarshal order event: %w", err)
	}

	switch event.Type {
	case order.EventOrderPlaced, order.EventOrderConfirmed, order.EventOrderDelivered:
	default:
		return nil
	}

	if event.Order != nil {
		if err := p.readStore.Upsert(event.Order); err != nil {
			return err
		}
		p.logger.Debug("projected order event",
			zap.String("type", event.Type), zap.String("order", event.OrderID))
		return nil
	}

	// Events from older producers carry only the id; keep at least the
	// status current.
	status := statusFor(event.Type)
	if status == "" {
		return nil
	}
	return p.readStore.SetStatus(event.OrderID, status)
}

func statusFor(eventType string) order.Status {
	switch eventType {
	case order.EventOrderPlaced:
		return order.StatusPending
	case order.EventOrderConfirmed:
		return order.StatusConfirmed
	case order.EventOrderDelivered:
		return order.StatusDelivered
	}
	return ""
}
