// Package notification reacts to order events with customer emails.
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/metrics"
)

// Mailer is the slice of the email service the notifier needs.
type Mailer interface {
	SendOrderConfirmation(o *order.Order) error
}

// Handler sends the confirmation email when an order is confirmed. Sends
// are fire-and-forget: a failure is logged and counted, never retried.
type Handler struct {
	mailer  Mailer
	metrics *metrics.Registry
	logger  *zap.Logger
}

func NewHandler(mailer Mailer, reg *metrics.Registry, logger *zap.Logger) *Handler {
	return &Handler{mailer: mailer, metrics: reg, logger: logger}
}

// HandleEvent processes an event from the order stream.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("unmarshal order event: %w", err)
	}

	if event.Type != order.EventOrderConfirmed {
		return nil
	}
	if event.Order == nil {
		h.logger.Warn("confirmed event without order payload", zap.String("order", event.OrderID))
		return nil
	}

	if err := h.mailer.SendOrderConfirmation(event.Order); err != nil {
		h.metrics.EmailFailures.Inc()
		h.logger.Warn("confirmation email failed",
			zap.String("order", event.Order.OrderNumber),
			zap.String("to", event.Order.Shipping.Email),
			zap.Error(err))
		return nil
	}

	h.metrics.EmailsSent.Inc()
	h.logger.Info("confirmation email sent",
		zap.String("order", event.Order.OrderNumber),
		zap.String("to", event.Order.Shipping.Email))
	return nil
}
