// Package api exposes the storefront and admin console over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/metrics"
)

// sessionCookie names the anonymous cart session cookie. Carts belong to
// browsers, not accounts.
const sessionCookie = "cart_session"

const suggestionLimit = 8

// EventPublisher is the slice of the event producer the handlers need.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Handlers serves the customer-facing storefront endpoints.
type Handlers struct {
	feed    *catalog.Feed
	carts   *cart.Store
	orders  order.Sink
	pricing order.Pricing
	events  EventPublisher
	metrics *metrics.Registry
	logger  *zap.Logger
}

func NewHandlers(feed *catalog.Feed, carts *cart.Store, orders order.Sink, pricing order.Pricing, events EventPublisher, reg *metrics.Registry, logger *zap.Logger) *Handlers {
	return &Handlers{
		feed:    feed,
		carts:   carts,
		orders:  orders,
		pricing: pricing,
		events:  events,
		metrics: reg,
		logger:  logger,
	}
}

// Product handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("search")
	if query == "" {
		query = r.URL.Query().Get("q")
	}

	items := catalog.Filter(h.feed.Snapshot(), category, query)
	respondJSON(w, http.StatusOK, items)
}

func (h *Handlers) GetFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Featured(h.feed.Snapshot()))
}

func (h *Handlers) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := suggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n < 50 {
			limit = n
		}
	}

	suggestions := catalog.Suggest(h.feed.Snapshot(), query, limit)
	if suggestions == nil {
		suggestions = []string{}
	}
	respondJSON(w, http.StatusOK, suggestions)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")

	item, err := h.feed.Get(id)
	if err != nil {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Categories)
}

// Cart handlers

// CartView is the cart response, totals included so the storefront can show
// the delivery fee banner without a second call.
type CartView struct {
	Items       []cart.Line `json:"items"`
	Count       int         `json:"count"`
	order.Quote             // subtotal, delivery_fee, total
}

func (h *Handlers) cartView(c *cart.Cart) CartView {
	count := 0
	for _, line := range c.Lines() {
		count += line.Quantity
	}
	return CartView{
		Items: c.Lines(),
		Count: count,
		Quote: h.pricing.Quote(c.Subtotal()),
	}
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	respondJSON(w, http.StatusOK, h.cartView(h.carts.Get(session)))
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.feed.Get(req.ProductID)
	if err != nil {
		respondJSONError(w, "Product not found", http.StatusNotFound)
		return
	}

	session := h.session(w, r)
	c := h.carts.Add(session, item)
	h.metrics.CartMutations.Inc()
	respondJSON(w, http.StatusOK, h.cartView(c))
}

func (h *Handlers) DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/cart/items/")
	id = strings.TrimSuffix(id, "/decrement")

	session := h.session(w, r)
	c := h.carts.Decrement(session, id)
	h.metrics.CartMutations.Inc()
	respondJSON(w, http.StatusOK, h.cartView(c))
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/cart/items/")

	session := h.session(w, r)
	c := h.carts.Remove(session, id)
	h.metrics.CartMutations.Inc()
	respondJSON(w, http.StatusOK, h.cartView(c))
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)
	c := h.carts.Clear(session)
	h.metrics.CartMutations.Inc()
	respondJSON(w, http.StatusOK, h.cartView(c))
}

// Checkout

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var shipping order.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&shipping); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session := h.session(w, r)
	c := h.carts.Get(session)
	if c.Empty() {
		respondJSONError(w, "Your cart is empty", http.StatusBadRequest)
		return
	}

	// Totals are recomputed from the cart here, never trusted from the
	// client.
	quote := h.pricing.Quote(c.Subtotal())
	o, err := order.Build(c.Lines(), shipping, quote, time.Now().UTC())
	if err != nil {
		var vErr *order.ValidationError
		if errors.As(err, &vErr) {
			respondJSONError(w, vErr.Error(), http.StatusBadRequest)
			return
		}
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.orders.Create(r.Context(), o); err != nil {
		// The cart is left intact so the customer can retry.
		h.logger.Error("order create failed", zap.String("order", o.OrderNumber), zap.Error(err))
		respondJSONError(w, "Could not place order, please try again", http.StatusBadGateway)
		return
	}

	h.publish(r.Context(), order.PlacedEvent(o, o.CreatedAt))
	h.metrics.OrdersPlaced.Inc()
	h.carts.Clear(session)

	h.logger.Info("order placed",
		zap.String("order", o.OrderNumber),
		zap.Int("items", len(o.Items)),
		zap.String("total", o.Total.String()))
	respondJSON(w, http.StatusCreated, o)
}

// publish sends an event to the order stream, best effort. Downstream
// consumers tolerate gaps; the order record itself is the source of truth.
func (h *Handlers) publish(ctx context.Context, event order.Event) {
	if h.events == nil {
		return
	}
	if err := h.events.Publish(ctx, event.OrderID, event); err != nil {
		h.logger.Warn("event publish failed",
			zap.String("type", event.Type),
			zap.String("order", event.OrderID),
			zap.Error(err))
	}
}

// session returns the cart session id from the cookie, minting one on first
// contact.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((90 * 24 * time.Hour).Seconds()),
	})
	return id
}

// Helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
