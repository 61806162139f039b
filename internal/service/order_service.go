package service

import (
	"context"
	"fmt"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductStore is the catalog surface the order service needs: lookups for
// validation and pricing, and the signed inventory adjustment.
type ProductStore interface {
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	AdjustInventory(ctx context.Context, sku string, delta int) error
}

// OrderStore persists order documents.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	GetOrderByInvoice(ctx context.Context, invoiceNumber string) (*models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	SearchOrdersByName(ctx context.Context, q string) ([]models.Order, error)
	ReplaceOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, invoiceNumber string) error
}

// EventPublisher publishes order lifecycle events. Publishing is
// best-effort; failures are logged and never surfaced to the caller.
type EventPublisher interface {
	PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error
	PublishOrderRevised(ctx context.Context, event *models.OrderRevisedEvent) error
	PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error
}

// SubmissionLedger remembers idempotency keys of completed submissions.
// Entries expire, so the ledger is only a hint; the order rows stay the
// authority. May be nil.
type SubmissionLedger interface {
	SeenSubmission(ctx context.Context, key string) (bool, error)
	MarkSubmission(ctx context.Context, key, invoiceNumber string) error
}

// OrderService handles order submission, revision, deletion and listing.
type OrderService struct {
	orders    OrderStore
	products  ProductStore
	publisher EventPublisher
	ledger    SubmissionLedger
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderStore, products ProductStore, publisher EventPublisher, ledger SubmissionLedger) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		publisher: publisher,
		ledger:    ledger,
		logger:    util.GetLogger(),
	}
}

// OrderItemRequest is a requested line item. Descriptive fields are echoed
// back on the stored order without consulting the catalog.
type OrderItemRequest struct {
	ItemName string  `json:"itemName"`
	Type     string  `json:"type"`
	Brand    string  `json:"brand"`
	Weight   float64 `json:"weight"`
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
}

// SubmitOrderRequest is the body of POST /orders.
type SubmitOrderRequest struct {
	Items          []OrderItemRequest `json:"items"`
	IdempotencyKey string             `json:"idempotencyKey,omitempty"`
}

// Submit validates the requested items against the catalog and persists a
// new order. Each accepted item's inventory is decremented immediately, so
// a failure on a later item leaves earlier decrements applied. That partial
// application is the documented contract, not an oversight.
func (s *OrderService) Submit(ctx context.Context, req *SubmitOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Submit")
	defer span.End()

	if err := validateItems(req.Items); err != nil {
		util.OrderRejectionsTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	if req.IdempotencyKey != "" {
		if existing, err := s.findPriorSubmission(ctx, req.IdempotencyKey); err != nil {
			return nil, err
		} else if existing != nil {
			s.logger.Info("Duplicate order submission",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.String("invoice_number", existing.InvoiceNumber))
			return existing, nil
		}
	}

	invoiceNumber := fmt.Sprintf("INV-%d", time.Now().UnixMilli())
	items := make(models.OrderItems, 0, len(req.Items))
	var totalPrice float64

	for _, item := range req.Items {
		product, err := s.products.GetProductBySKU(ctx, item.SKU)
		if err != nil {
			util.OrderRejectionsTotal.WithLabelValues("unknown_sku").Inc()
			return nil, fmt.Errorf("product %s: %w", item.ItemName, err)
		}

		if product.InventoryCount < item.Quantity {
			util.OrderRejectionsTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, fmt.Errorf("insufficient inventory for %s: %w", item.ItemName, models.ErrInsufficientStock)
		}

		totalPrice += product.BasePrice * float64(item.Quantity)
		items = append(items, models.OrderItem{
			ItemName: item.ItemName,
			Type:     item.Type,
			Brand:    item.Brand,
			Weight:   item.Weight,
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})

		// Decrement immediately, per item. Not batched, not rolled back
		// if a later item fails.
		if err := s.products.AdjustInventory(ctx, item.SKU, -item.Quantity); err != nil {
			util.OrderRejectionsTotal.WithLabelValues("store_error").Inc()
			return nil, fmt.Errorf("failed to adjust inventory for %s: %w", item.SKU, err)
		}
	}

	order := &models.Order{
		InvoiceNumber:  invoiceNumber,
		Items:          items,
		TotalPrice:     totalPrice,
		OrderDate:      time.Now(),
		Status:         models.OrderStatusPending,
		IdempotencyKey: req.IdempotencyKey,
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		util.OrderRejectionsTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if s.ledger != nil && req.IdempotencyKey != "" {
		if err := s.ledger.MarkSubmission(ctx, req.IdempotencyKey, invoiceNumber); err != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(err))
		}
	}

	util.OrdersSubmittedTotal.Inc()
	s.logger.Info("Order submitted",
		zap.String("invoice_number", invoiceNumber),
		zap.Float64("total_price", totalPrice),
		zap.Int("item_count", len(items)))

	s.publishSubmitted(ctx, order)
	return order, nil
}

// findPriorSubmission looks up an order already created under the given key.
// The order rows are authoritative; the ledger is a positive-only hint, since
// its entries expire and a miss proves nothing.
func (s *OrderService) findPriorSubmission(ctx context.Context, key string) (*models.Order, error) {
	if s.ledger != nil {
		seen, err := s.ledger.SeenSubmission(ctx, key)
		if err != nil {
			s.logger.Warn("Idempotency fast-path check failed", zap.Error(err))
		} else if seen {
			s.logger.Debug("Idempotency key seen in ledger", zap.String("idempotency_key", key))
		}
	}

	existing, err := s.orders.GetOrderByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	return existing, nil
}

// Revise replaces an order's item list wholesale. Unlike Submit, all items
// are validated before any inventory is touched; the per-sku inventory
// adjustment is the signed difference against the quantity previously
// recorded for that sku (absent means zero). SKUs dropped from the order
// get no restore, matching the upstream behavior.
func (s *OrderService) Revise(ctx context.Context, invoiceNumber string, items []OrderItemRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Revise")
	defer span.End()

	existing, err := s.orders.GetOrderByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	if err := validateItems(items); err != nil {
		util.OrderRejectionsTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	previous := make(map[string]int, len(existing.Items))
	for _, item := range existing.Items {
		previous[item.SKU] = item.Quantity
	}

	type adjustment struct {
		sku   string
		delta int
	}

	var (
		totalPrice  float64
		adjustments []adjustment
	)
	newItems := make(models.OrderItems, 0, len(items))

	for _, item := range items {
		product, err := s.products.GetProductBySKU(ctx, item.SKU)
		if err != nil {
			util.OrderRejectionsTotal.WithLabelValues("unknown_sku").Inc()
			return nil, fmt.Errorf("product %s: %w", item.ItemName, err)
		}

		if product.InventoryCount < item.Quantity {
			util.OrderRejectionsTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, fmt.Errorf("insufficient inventory for %s: %w", item.ItemName, models.ErrInsufficientStock)
		}

		// Current price, not the price at original order time.
		totalPrice += product.BasePrice * float64(item.Quantity)

		if diff := item.Quantity - previous[item.SKU]; diff != 0 {
			adjustments = append(adjustments, adjustment{sku: item.SKU, delta: -diff})
		}

		newItems = append(newItems, models.OrderItem{
			ItemName: item.ItemName,
			Type:     item.Type,
			Brand:    item.Brand,
			Weight:   item.Weight,
			SKU:      item.SKU,
			Quantity: item.Quantity,
		})
	}

	updated := &models.Order{
		ID:             existing.ID,
		InvoiceNumber:  existing.InvoiceNumber,
		Items:          newItems,
		TotalPrice:     totalPrice,
		OrderDate:      time.Now(),
		Status:         existing.Status,
		IdempotencyKey: existing.IdempotencyKey,
	}

	if err := s.orders.ReplaceOrder(ctx, updated); err != nil {
		util.OrderRejectionsTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("failed to replace order: %w", err)
	}

	// Mutation pass. A failure here leaves earlier adjustments applied;
	// there is no compensating rollback.
	for _, adj := range adjustments {
		if err := s.products.AdjustInventory(ctx, adj.sku, adj.delta); err != nil {
			util.OrderRejectionsTotal.WithLabelValues("store_error").Inc()
			return nil, fmt.Errorf("failed to adjust inventory for %s: %w", adj.sku, err)
		}
	}

	util.OrdersRevisedTotal.Inc()
	s.logger.Info("Order revised",
		zap.String("invoice_number", invoiceNumber),
		zap.Float64("total_price", totalPrice))

	s.publishRevised(ctx, updated)
	return updated, nil
}

// Delete removes an order. Inventory is not restored.
func (s *OrderService) Delete(ctx context.Context, invoiceNumber string) error {
	if _, err := s.orders.GetOrderByInvoice(ctx, invoiceNumber); err != nil {
		return err
	}

	if err := s.orders.DeleteOrder(ctx, invoiceNumber); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	util.OrdersDeletedTotal.Inc()
	s.logger.Info("Order deleted", zap.String("invoice_number", invoiceNumber))

	s.publishDeleted(ctx, invoiceNumber)
	return nil
}

// List returns all orders.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListOrders(ctx)
}

// Search filters orders on the order name field.
func (s *OrderService) Search(ctx context.Context, q string) ([]models.Order, error) {
	return s.orders.SearchOrdersByName(ctx, q)
}

func validateItems(items []OrderItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("order items missing: %w", models.ErrInvalidInput)
	}
	for _, item := range items {
		if item.SKU == "" || item.Quantity <= 0 {
			return fmt.Errorf("malformed order item: %w", models.ErrInvalidInput)
		}
	}
	return nil
}

func (s *OrderService) publishSubmitted(ctx context.Context, order *models.Order) {
	event := &models.OrderSubmittedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeOrderSubmitted),
		InvoiceNumber: order.InvoiceNumber,
		TotalPrice:    order.TotalPrice,
		Items:         order.Items,
	}
	if err := s.publisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}
}

func (s *OrderService) publishRevised(ctx context.Context, order *models.Order) {
	event := &models.OrderRevisedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeOrderRevised),
		InvoiceNumber: order.InvoiceNumber,
		TotalPrice:    order.TotalPrice,
		Items:         order.Items,
	}
	if err := s.publisher.PublishOrderRevised(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderRevised event", zap.Error(err))
	}
}

func (s *OrderService) publishDeleted(ctx context.Context, invoiceNumber string) {
	event := &models.OrderDeletedEvent{
		BaseEvent:     newBaseEvent(models.EventTypeOrderDeleted),
		InvoiceNumber: invoiceNumber,
	}
	if err := s.publisher.PublishOrderDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
