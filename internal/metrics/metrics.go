// Package metrics exposes the service's Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersPlaced    prometheus.Counter
	OrdersConfirmed prometheus.Counter
	OrdersDelivered prometheus.Counter
	EmailsSent      prometheus.Counter
	EmailFailures   prometheus.Counter
	CartMutations   prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_orders_placed_total"})
	confirmed := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_orders_confirmed_total"})
	delivered := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_orders_delivered_total"})
	emailsSent := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_emails_sent_total"})
	emailFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_email_failures_total"})
	cartMutations := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_cart_mutations_total"})

	r.MustRegister(placed, confirmed, delivered, emailsSent, emailFailures, cartMutations)
	return &Registry{
		reg:             r,
		OrdersPlaced:    placed,
		OrdersConfirmed: confirmed,
		OrdersDelivered: delivered,
		EmailsSent:      emailsSent,
		EmailFailures:   emailFailures,
		CartMutations:   cartMutations,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
