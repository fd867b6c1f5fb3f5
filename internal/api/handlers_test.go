package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/reporting"
	"github.com/example/storefront/internal/metrics"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin-password"
	testJWTSecret     = "test-secret-key-at-least-32-chars-long"
)

type fakePublisher struct {
	events []order.Event
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event.(order.Event))
	return nil
}

type fakeAssets struct {
	url string
	err error
}

func (f *fakeAssets) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeReports struct {
	rows   []reporting.OrderRow
	counts map[string]int
	wiped  bool
}

func (f *fakeReports) ListByStatus(status order.Status) ([]reporting.OrderRow, error) {
	if status == "" {
		return f.rows, nil
	}
	var out []reporting.OrderRow
	for _, r := range f.rows {
		if r.Status == string(status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReports) CountByStatus() (map[string]int, error) { return f.counts, nil }
func (f *fakeReports) DeleteAll() error                       { f.wiped = true; return nil }

type testEnv struct {
	router    http.Handler
	catalog   *catalog.Fixture
	orders    *order.MemorySink
	publisher *fakePublisher
	reports   *fakeReports
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()

	fixture := catalog.NewFixture(
		catalog.Item{ID: "p1", Title: "Rose Toner", Category: "Skincare",
			ActualPrice: decimal.NewFromInt(700), DiscountedPrice: decimal.NewFromInt(500), Featured: true},
		catalog.Item{ID: "p2", Title: "Argan Hair Oil", Category: "Hair Care",
			ActualPrice: decimal.NewFromInt(1500), DiscountedPrice: decimal.NewFromInt(1300)},
	)
	feed := catalog.NewFeed(fixture, log)
	require.NoError(t, feed.Refresh(context.Background()))

	carts := cart.NewStore(cart.NewMemoryPersister(), log)
	sink := order.NewMemorySink()
	publisher := &fakePublisher{}
	reports := &fakeReports{counts: map[string]int{"pending": 2, "delivered": 1}}
	reg := metrics.NewRegistry()

	jwtService := auth.NewJWTService(testJWTSecret, time.Hour)
	policy := auth.NewPolicy(testAdminEmail)
	passwordHash, err := auth.HashPassword(testAdminPassword)
	require.NoError(t, err)

	pricing := order.NewPricing(2500, 199)

	handlers := NewHandlers(feed, carts, sink, pricing, publisher, reg, log)
	adminHandlers := NewAdminHandlers(fixture, feed, sink, reports, &fakeAssets{url: "https://cdn.example.com/products/x.jpg"}, publisher, reg, log)
	authHandlers := NewAuthHandlers(jwtService, policy, passwordHash, log)

	router := NewRouter(handlers, adminHandlers, authHandlers, jwtService, policy, reg, log)
	return &testEnv{router: router, catalog: fixture, orders: sink, publisher: publisher, reports: reports}
}

// do runs a request, carrying cookies forward from previous responses.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	merged := append([]*http.Cookie{}, cookies...)
	for _, c := range rec.Result().Cookies() {
		merged = append(merged, c)
	}
	return rec, merged
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// ============================================
// Catalog Endpoints
// ============================================

func TestGetProducts(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]catalog.Item](t, rec), 2)
}

func TestGetProducts_FilterByCategory(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/products?category=hair-care", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeBody[[]catalog.Item](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}

func TestGetFeaturedProducts(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/products/featured", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decodeBody[[]catalog.Item](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
}

func TestGetSuggestions(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/products/suggest?q=rose", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Rose Toner"}, decodeBody[[]string](t, rec))
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/products/p1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rose Toner", decodeBody[catalog.Item](t, rec).Title)

	rec, _ = env.do(t, http.MethodGet, "/api/products/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]catalog.Category](t, rec), 5)
}

// ============================================
// Cart Endpoints
// ============================================

func TestCart_AddAndGet(t *testing.T) {
	env := newTestEnv(t)

	rec, cookies := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeBody[CartView](t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 2, view.Count)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, view.DeliveryFee.Equal(decimal.NewFromInt(199)))
}

func TestCart_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_FreeDeliveryAtThreshold(t *testing.T) {
	env := newTestEnv(t)

	// 2 x 1300 = 2600, above the 2500 threshold.
	_, cookies := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p2"}, nil)
	rec, _ := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p2"}, cookies)

	view := decodeBody[CartView](t, rec)
	assert.True(t, view.DeliveryFee.IsZero())
	assert.True(t, view.Total.Equal(decimal.NewFromInt(2600)))
}

func TestCart_DecrementAndRemove(t *testing.T) {
	env := newTestEnv(t)

	_, cookies := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, nil)
	_, cookies = env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, cookies)

	rec, _ := env.do(t, http.MethodPost, "/api/cart/items/p1/decrement", nil, cookies)
	view := decodeBody[CartView](t, rec)
	assert.Equal(t, 1, view.Count)

	// Decrement at quantity one drops the line.
	rec, _ = env.do(t, http.MethodPost, "/api/cart/items/p1/decrement", nil, cookies)
	assert.Empty(t, decodeBody[CartView](t, rec).Items)

	_, cookies = env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p2"}, cookies)
	rec, _ = env.do(t, http.MethodDelete, "/api/cart/items/p2", nil, cookies)
	assert.Empty(t, decodeBody[CartView](t, rec).Items)
}

func TestCart_Clear(t *testing.T) {
	env := newTestEnv(t)

	_, cookies := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, nil)
	rec, _ := env.do(t, http.MethodDelete, "/api/cart", nil, cookies)

	assert.Empty(t, decodeBody[CartView](t, rec).Items)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	_, _ = env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, nil)

	// A request without the cookie gets a fresh cart.
	rec, _ := env.do(t, http.MethodGet, "/api/cart", nil, nil)
	assert.Empty(t, decodeBody[CartView](t, rec).Items)
}

// ============================================
// Checkout
// ============================================

func validShipping() order.ShippingInfo {
	return order.ShippingInfo{
		FirstName: "Asha",
		LastName:  "Perera",
		Email:     "asha@example.com",
		Phone:     "0771234567",
		Address:   "12 Lake Road",
		City:      "Colombo",
		Zip:       "00100",
	}
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)

	_, cookies := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, nil)
	rec, cookies := env.do(t, http.MethodPost, "/api/checkout", validShipping(), cookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	placed := decodeBody[order.Order](t, rec)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.True(t, placed.Subtotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, placed.Total.Equal(decimal.NewFromInt(699)))
	assert.Contains(t, placed.OrderNumber, "ORD-")

	// The order landed in the sink.
	stored, err := env.orders.Get(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, stored.OrderNumber)

	// A placed event went out.
	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, order.EventOrderPlaced, env.publisher.events[0].Type)

	// The cart was emptied.
	rec, _ = env.do(t, http.MethodGet, "/api/cart", nil, cookies)
	assert.Empty(t, decodeBody[CartView](t, rec).Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPost, "/api/checkout", validShipping(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_MissingField(t *testing.T) {
	env := newTestEnv(t)

	_, cookies := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, nil)

	shipping := validShipping()
	shipping.Phone = ""
	rec, cookies := env.do(t, http.MethodPost, "/api/checkout", shipping, cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "please fill out phone", decodeBody[map[string]string](t, rec)["error"])

	// The cart survives a failed checkout.
	rec, _ = env.do(t, http.MethodGet, "/api/cart", nil, cookies)
	assert.Len(t, decodeBody[CartView](t, rec).Items, 1)
}

func TestCheckout_PublishFailureStillPlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = fmt.Errorf("broker down")

	_, cookies := env.do(t, http.MethodPost, "/api/cart/items", addToCartRequest{ProductID: "p1"}, nil)
	rec, _ := env.do(t, http.MethodPost, "/api/checkout", validShipping(), cookies)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
