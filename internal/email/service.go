// Package email renders and sends the customer-facing order emails.
package email

import (
	"fmt"
	"net/smtp"

	"github.com/example/storefront/internal/domain/order"
)

// Service sends order emails via SMTP.
type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendOrderConfirmation sends the confirmation email for an order. Failures
// are terminal for this send; the caller treats the whole operation as
// fire-and-forget.
func (s *Service) SendOrderConfirmation(o *order.Order) error {
	subject := fmt.Sprintf("Your order %s is confirmed", o.OrderNumber)
	body := BuildOrderConfirmationBody(o)
	return s.send(o.Shipping.Email, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
