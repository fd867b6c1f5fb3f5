package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/export"
	"github.com/example/storefront/internal/infrastructure/reporting"
	"github.com/example/storefront/internal/metrics"
)

// maxImageSize caps product image uploads at 10 MB.
const maxImageSize = 10 << 20

// AssetStore is the slice of the asset uploader the admin handlers need.
type AssetStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// ReportStore is the slice of the reporting read model the admin console
// reads for exports and summaries.
type ReportStore interface {
	ListByStatus(status order.Status) ([]reporting.OrderRow, error)
	CountByStatus() (map[string]int, error)
	DeleteAll() error
}

// AdminHandlers serves the admin console: product management and the order
// pipeline.
type AdminHandlers struct {
	catalog catalog.Store
	feed    *catalog.Feed
	orders  order.Sink
	reports ReportStore
	assets  AssetStore
	events  EventPublisher
	metrics *metrics.Registry
	logger  *zap.Logger
}

func NewAdminHandlers(catalogStore catalog.Store, feed *catalog.Feed, orders order.Sink, reports ReportStore, assets AssetStore, events EventPublisher, reg *metrics.Registry, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{
		catalog: catalogStore,
		feed:    feed,
		orders:  orders,
		reports: reports,
		assets:  assets,
		events:  events,
		metrics: reg,
		logger:  logger,
	}
}

// Product management

type productRequest struct {
	Title           string          `json:"title"`
	Category        string          `json:"category"`
	ActualPrice     decimal.Decimal `json:"actual_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Description     string          `json:"description"`
	Specs           []string        `json:"specs"`
	Benefits        []string        `json:"benefits"`
	Featured        bool            `json:"featured"`
	ImageURL        string          `json:"image_url"`
}

func (h *AdminHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !catalog.ValidCategory(catalog.Slugify(req.Category)) {
		respondJSONError(w, "Unknown category", http.StatusBadRequest)
		return
	}

	item := catalog.Item{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Category:        req.Category,
		ActualPrice:     req.ActualPrice,
		DiscountedPrice: req.DiscountedPrice,
		DiscountPercent: catalog.DiscountPercent(req.ActualPrice, req.DiscountedPrice),
		Description:     req.Description,
		Specs:           req.Specs,
		Benefits:        req.Benefits,
		Featured:        req.Featured,
		ImageURL:        req.ImageURL,
		CreatedAt:       time.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.catalog.Put(r.Context(), item); err != nil {
		h.logger.Error("product create failed", zap.String("title", item.Title), zap.Error(err))
		respondJSONError(w, "Could not save product", http.StatusBadGateway)
		return
	}

	h.refreshCatalog(r.Context())
	h.logger.Info("product created", zap.String("product", item.ID), zap.String("title", item.Title))
	respondJSON(w, http.StatusCreated, item)
}

func (h *AdminHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/products/")

	existing, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "Could not load product", http.StatusBadGateway)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !catalog.ValidCategory(catalog.Slugify(req.Category)) {
		respondJSONError(w, "Unknown category", http.StatusBadRequest)
		return
	}

	item := catalog.Item{
		ID:              existing.ID,
		Title:           req.Title,
		Category:        req.Category,
		ActualPrice:     req.ActualPrice,
		DiscountedPrice: req.DiscountedPrice,
		DiscountPercent: catalog.DiscountPercent(req.ActualPrice, req.DiscountedPrice),
		Description:     req.Description,
		Specs:           req.Specs,
		Benefits:        req.Benefits,
		Featured:        req.Featured,
		ImageURL:        req.ImageURL,
		CreatedAt:       existing.CreatedAt,
	}
	if item.ImageURL == "" {
		item.ImageURL = existing.ImageURL
	}
	if err := item.Validate(); err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.catalog.Put(r.Context(), item); err != nil {
		h.logger.Error("product update failed", zap.String("product", id), zap.Error(err))
		respondJSONError(w, "Could not save product", http.StatusBadGateway)
		return
	}

	h.refreshCatalog(r.Context())
	respondJSON(w, http.StatusOK, item)
}

func (h *AdminHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/products/")

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.logger.Error("product delete failed", zap.String("product", id), zap.Error(err))
		respondJSONError(w, "Could not delete product", http.StatusBadGateway)
		return
	}

	h.refreshCatalog(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// UploadProductImage accepts a multipart image, stores it on the asset host
// and points the product at the new URL.
func (h *AdminHandlers) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/products/")
	id = strings.TrimSuffix(id, "/image")

	item, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		respondJSONError(w, "Could not load product", http.StatusBadGateway)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSONError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondJSONError(w, "Only image uploads are accepted", http.StatusBadRequest)
		return
	}

	url, err := h.assets.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("image upload failed", zap.String("product", id), zap.Error(err))
		respondJSONError(w, "Could not upload image", http.StatusBadGateway)
		return
	}

	item.ImageURL = url
	if err := h.catalog.Put(r.Context(), item); err != nil {
		h.logger.Error("product image update failed", zap.String("product", id), zap.Error(err))
		respondJSONError(w, "Could not save product", http.StatusBadGateway)
		return
	}

	h.refreshCatalog(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

// Order pipeline

func (h *AdminHandlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(r.URL.Query().Get("status"))
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	orders, err := h.orders.ListByStatus(r.Context(), status)
	if err != nil {
		h.logger.Error("order list failed", zap.String("status", string(status)), zap.Error(err))
		respondJSONError(w, "Could not load orders", http.StatusBadGateway)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *AdminHandlers) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/orders/")
	id = strings.TrimSuffix(id, "/confirm")
	h.advanceOrder(w, r, id, order.StatusPending, order.StatusConfirmed)
}

func (h *AdminHandlers) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/admin/orders/")
	id = strings.TrimSuffix(id, "/deliver")
	h.advanceOrder(w, r, id, order.StatusConfirmed, order.StatusDelivered)
}

func (h *AdminHandlers) advanceOrder(w http.ResponseWriter, r *http.Request, id string, expected, target order.Status) {
	now := time.Now().UTC()
	updated, err := h.orders.UpdateStatus(r.Context(), id, expected, target, now)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			respondJSONError(w, "Order not found", http.StatusNotFound)
		case errors.Is(err, order.ErrStatusConflict), errors.Is(err, order.ErrInvalidStatus):
			respondJSONError(w, fmt.Sprintf("Order is no longer %s", expected), http.StatusConflict)
		default:
			h.logger.Error("order status update failed", zap.String("order", id), zap.Error(err))
			respondJSONError(w, "Could not update order", http.StatusBadGateway)
		}
		return
	}

	switch target {
	case order.StatusConfirmed:
		h.publish(r.Context(), order.ConfirmedEvent(updated, now))
		h.metrics.OrdersConfirmed.Inc()
	case order.StatusDelivered:
		h.publish(r.Context(), order.DeliveredEvent(updated, now))
		h.metrics.OrdersDelivered.Inc()
	}

	h.logger.Info("order status updated",
		zap.String("order", updated.OrderNumber),
		zap.String("status", string(target)))
	respondJSON(w, http.StatusOK, updated)
}

// DeleteOrders wipes the order collection and the reporting read model. Both
// deletes are best effort.
func (h *AdminHandlers) DeleteOrders(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.orders.DeleteAll(r.Context())
	if err != nil {
		h.logger.Error("order bulk delete failed", zap.Int("deleted", deleted), zap.Error(err))
		respondJSONError(w, "Could not delete all orders", http.StatusBadGateway)
		return
	}

	if h.reports != nil {
		if err := h.reports.DeleteAll(); err != nil {
			h.logger.Warn("reporting delete failed", zap.Error(err))
		}
	}

	h.logger.Info("orders deleted", zap.Int("deleted", deleted))
	respondJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// Reporting

// ExportOrders streams the reporting rows as a CSV download.
func (h *AdminHandlers) ExportOrders(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		respondJSONError(w, "Reporting is unavailable", http.StatusServiceUnavailable)
		return
	}

	raw := r.URL.Query().Get("status")
	var status order.Status
	if raw != "" && raw != "all" {
		parsed, err := parseStatus(raw)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		status = parsed
	}

	rows, err := h.reports.ListByStatus(status)
	if err != nil {
		h.logger.Error("order export failed", zap.Error(err))
		respondJSONError(w, "Could not export orders", http.StatusBadGateway)
		return
	}

	filename := "orders.csv"
	if status != "" {
		filename = fmt.Sprintf("%s_orders.csv", status)
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteOrders(w, rows); err != nil {
		h.logger.Warn("csv write aborted", zap.Error(err))
	}
}

// GetOrderSummary returns per-status order counts for the console dashboard.
func (h *AdminHandlers) GetOrderSummary(w http.ResponseWriter, r *http.Request) {
	if h.reports == nil {
		respondJSONError(w, "Reporting is unavailable", http.StatusServiceUnavailable)
		return
	}

	counts, err := h.reports.CountByStatus()
	if err != nil {
		h.logger.Error("order summary failed", zap.Error(err))
		respondJSONError(w, "Could not load summary", http.StatusBadGateway)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	respondJSON(w, http.StatusOK, map[string]any{"counts": counts, "total": total})
}

func (h *AdminHandlers) publish(ctx context.Context, event order.Event) {
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

// refreshCatalog pulls the feed forward after an admin mutation so the
// storefront sees it before the next poll tick.
func (h *AdminHandlers) refreshCatalog(ctx context.Context) {
	if h.feed == nil {
		return
	}
	if err := h.feed.Refresh(ctx); err != nil {
		h.logger.Warn("catalog refresh failed", zap.Error(err))
	}
}

// parseStatus maps the console's status tab to an order status. Empty means
// the pending tab, the console's landing view.
func parseStatus(raw string) (order.Status, error) {
	switch raw {
	case "", "pending":
		return order.StatusPending, nil
	case "confirmed":
		return order.StatusConfirmed, nil
	case "delivered":
		return order.StatusDelivered, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}
