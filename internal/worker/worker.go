package worker

import (
	"context"
	"encoding/json"

	"inventory-service/internal/broker"
	"inventory-service/internal/models"
	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StockAlertWorker consumes order events and flags products whose
// inventory has reached zero after a submission or revision.
type StockAlertWorker struct {
	consumer *broker.Consumer
	products service.ProductStore
	logger   *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(consumer *broker.Consumer, products service.ProductStore) *StockAlertWorker {
	return &StockAlertWorker{
		consumer: consumer,
		products: products,
		logger:   util.GetLogger(),
	}
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock alert worker")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	w.logger.Info("Stopping stock alert worker")
	return w.consumer.Close()
}

func (w *StockAlertWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		w.logger.Error("Failed to unmarshal event", zap.Error(err))
		return err
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderSubmitted:
		var event models.OrderSubmittedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		w.checkStockLevels(ctx, event.InvoiceNumber, event.Items)

	case models.EventTypeOrderRevised:
		var event models.OrderRevisedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		w.checkStockLevels(ctx, event.InvoiceNumber, event.Items)
	}

	return nil
}

// checkStockLevels re-reads each affected product and warns on depletion.
// Lookup failures are logged and skipped; the product may have been
// deleted since the order was written.
func (w *StockAlertWorker) checkStockLevels(ctx context.Context, invoiceNumber string, items []models.OrderItem) {
	for _, item := range items {
		product, err := w.products.GetProductBySKU(ctx, item.SKU)
		if err != nil {
			w.logger.Warn("Stock check skipped",
				zap.String("sku", item.SKU),
				zap.Error(err))
			continue
		}

		if product.InventoryCount <= 0 {
			util.StockDepletionsTotal.Inc()
			w.logger.Warn("Product out of stock",
				zap.String("sku", product.SKU),
				zap.String("name", product.Name),
				zap.String("invoice_number", invoiceNumber),
				zap.Int("inventory_count", product.InventoryCount))
		}
	}
}
