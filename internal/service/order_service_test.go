package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products map[string]*models.Product
}

func newFakeCatalog(products ...*models.Product) *fakeCatalog {
	fc := &fakeCatalog{products: map[string]*models.Product{}}
	for _, p := range products {
		fc.products[p.SKU] = p
	}
	return fc
}

func (f *fakeCatalog) GetProductBySKU(_ context.Context, sku string) (*models.Product, error) {
	p, ok := f.products[sku]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", sku, models.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeCatalog) AdjustInventory(_ context.Context, sku string, delta int) error {
	p, ok := f.products[sku]
	if !ok {
		return fmt.Errorf("product %s: %w", sku, models.ErrNotFound)
	}
	p.InventoryCount += delta
	return nil
}

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*models.Order{}}
}

func (f *fakeOrderStore) InsertOrder(_ context.Context, order *models.Order) error {
	copied := *order
	f.orders[order.InvoiceNumber] = &copied
	return nil
}

func (f *fakeOrderStore) GetOrderByInvoice(_ context.Context, invoiceNumber string) (*models.Order, error) {
	o, ok := f.orders[invoiceNumber]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", invoiceNumber, models.ErrNotFound)
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) GetOrderByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.IdempotencyKey == key {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) SearchOrdersByName(_ context.Context, q string) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.orders {
		if o.OrderName.Valid && strings.Contains(strings.ToLower(o.OrderName.String), strings.ToLower(q)) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ReplaceOrder(_ context.Context, order *models.Order) error {
	if _, ok := f.orders[order.InvoiceNumber]; !ok {
		return fmt.Errorf("order %s: %w", order.InvoiceNumber, models.ErrNotFound)
	}
	copied := *order
	f.orders[order.InvoiceNumber] = &copied
	return nil
}

func (f *fakeOrderStore) DeleteOrder(_ context.Context, invoiceNumber string) error {
	delete(f.orders, invoiceNumber)
	return nil
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderSubmitted(context.Context, *models.OrderSubmittedEvent) error {
	return nil
}
func (noopPublisher) PublishOrderRevised(context.Context, *models.OrderRevisedEvent) error {
	return nil
}
func (noopPublisher) PublishOrderDeleted(context.Context, *models.OrderDeletedEvent) error {
	return nil
}

func newTestOrderService(orders OrderStore, products ProductStore) *OrderService {
	return NewOrderService(orders, products, noopPublisher{}, nil)
}

func TestSubmitComputesTotalAndDecrementsStock(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", Name: "Widget", BasePrice: 10.5, InventoryCount: 8},
		&models.Product{SKU: "SKU-2", Name: "Gadget", BasePrice: 3, InventoryCount: 5},
	)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, catalog)

	order, err := svc.Submit(context.Background(), &SubmitOrderRequest{
		Items: []OrderItemRequest{
			{ItemName: "Widget", SKU: "SKU-1", Quantity: 2},
			{ItemName: "Gadget", SKU: "SKU-2", Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2*10.5+3*3.0, order.TotalPrice)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.InvoiceNumber, "INV-"))
	assert.Len(t, order.Items, 2)

	assert.Equal(t, 6, catalog.products["SKU-1"].InventoryCount)
	assert.Equal(t, 2, catalog.products["SKU-2"].InventoryCount)

	stored, err := orders.GetOrderByInvoice(context.Background(), order.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, order.TotalPrice, stored.TotalPrice)
}

func TestSubmitStockOutLeavesEarlierDecrementsApplied(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 5, InventoryCount: 10},
		&models.Product{SKU: "SKU-2", BasePrice: 7, InventoryCount: 1},
	)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, catalog)

	_, err := svc.Submit(context.Background(), &SubmitOrderRequest{
		Items: []OrderItemRequest{
			{ItemName: "First", SKU: "SKU-1", Quantity: 4},
			{ItemName: "Second", SKU: "SKU-2", Quantity: 2},
		},
	})
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	// The first item's decrement stays applied; there is no rollback.
	assert.Equal(t, 6, catalog.products["SKU-1"].InventoryCount)
	assert.Equal(t, 1, catalog.products["SKU-2"].InventoryCount)
	assert.Empty(t, orders.orders)
}

func TestSubmitUnknownSKU(t *testing.T) {
	catalog := newFakeCatalog()
	svc := newTestOrderService(newFakeOrderStore(), catalog)

	_, err := svc.Submit(context.Background(), &SubmitOrderRequest{
		Items: []OrderItemRequest{{ItemName: "Ghost", SKU: "NOPE", Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmitRejectsMalformedItems(t *testing.T) {
	svc := newTestOrderService(newFakeOrderStore(), newFakeCatalog())

	_, err := svc.Submit(context.Background(), &SubmitOrderRequest{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Submit(context.Background(), &SubmitOrderRequest{
		Items: []OrderItemRequest{{SKU: "SKU-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSubmitWithSeenIdempotencyKeyReturnsExistingOrder(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 2, InventoryCount: 9},
	)
	orders := newFakeOrderStore()
	svc := newTestOrderService(orders, catalog)

	first, err := svc.Submit(context.Background(), &SubmitOrderRequest{
		Items:          []OrderItemRequest{{ItemName: "Widget", SKU: "SKU-1", Quantity: 3}},
		IdempotencyKey: "key-123",
	})
	require.NoError(t, err)
	require.Equal(t, 6, catalog.products["SKU-1"].InventoryCount)

	second, err := svc.Submit(context.Background(), &SubmitOrderRequest{
		Items:          []OrderItemRequest{{ItemName: "Widget", SKU: "SKU-1", Quantity: 3}},
		IdempotencyKey: "key-123",
	})
	require.NoError(t, err)

	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, 6, catalog.products["SKU-1"].InventoryCount, "repeat submission must not decrement stock")
}

// coldLedger never remembers a key, as after entry expiry or a flush.
type coldLedger struct {
	marks map[string]string
}

func (c *coldLedger) SeenSubmission(context.Context, string) (bool, error) {
	return false, nil
}

func (c *coldLedger) MarkSubmission(_ context.Context, key, invoiceNumber string) error {
	c.marks[key] = invoiceNumber
	return nil
}

func TestSubmitDuplicateKeySurvivesLedgerExpiry(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 2, InventoryCount: 10},
	)
	orders := newFakeOrderStore()
	ledger := &coldLedger{marks: map[string]string{}}
	svc := NewOrderService(orders, catalog, noopPublisher{}, ledger)

	req := &SubmitOrderRequest{
		Items:          []OrderItemRequest{{ItemName: "Widget", SKU: "SKU-1", Quantity: 3}},
		IdempotencyKey: "key-456",
	}

	first, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 7, catalog.products["SKU-1"].InventoryCount)
	require.Equal(t, first.InvoiceNumber, ledger.marks["key-456"])

	// The ledger reports the key as unseen, but the stored order row still
	// carries it; the resubmission must return that order untouched.
	second, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, 7, catalog.products["SKU-1"].InventoryCount, "resubmission must not decrement stock again")
	assert.Len(t, orders.orders, 1)
}

func TestReviseAdjustsInventoryByDelta(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 4, InventoryCount: 8},
	)
	orders := newFakeOrderStore()
	require.NoError(t, orders.InsertOrder(context.Background(), &models.Order{
		InvoiceNumber: "INV-1",
		Items:         models.OrderItems{{ItemName: "Widget", SKU: "SKU-1", Quantity: 2}},
		TotalPrice:    8,
		Status:        models.OrderStatusPending,
	}))
	svc := newTestOrderService(orders, catalog)

	// Price changed since the original order; the revised total must use
	// the current price.
	catalog.products["SKU-1"].BasePrice = 6

	order, err := svc.Revise(context.Background(), "INV-1", []OrderItemRequest{
		{ItemName: "Widget", SKU: "SKU-1", Quantity: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, 5.0*6, order.TotalPrice)
	assert.Equal(t, 8-3, catalog.products["SKU-1"].InventoryCount, "quantity 2->5 must remove 3 more units")
}

func TestReviseQuantityDownRestoresStock(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 4, InventoryCount: 3},
	)
	orders := newFakeOrderStore()
	require.NoError(t, orders.InsertOrder(context.Background(), &models.Order{
		InvoiceNumber: "INV-2",
		Items:         models.OrderItems{{ItemName: "Widget", SKU: "SKU-1", Quantity: 5}},
		Status:        models.OrderStatusPending,
	}))
	svc := newTestOrderService(orders, catalog)

	_, err := svc.Revise(context.Background(), "INV-2", []OrderItemRequest{
		{ItemName: "Widget", SKU: "SKU-1", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 3+4, catalog.products["SKU-1"].InventoryCount, "quantity 5->1 must restore 4 units")
}

func TestReviseNewSkuTreatsPreviousQuantityAsZero(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 4, InventoryCount: 10},
		&models.Product{SKU: "SKU-2", BasePrice: 9, InventoryCount: 10},
	)
	orders := newFakeOrderStore()
	require.NoError(t, orders.InsertOrder(context.Background(), &models.Order{
		InvoiceNumber: "INV-3",
		Items:         models.OrderItems{{ItemName: "Widget", SKU: "SKU-1", Quantity: 2}},
		Status:        models.OrderStatusPending,
	}))
	svc := newTestOrderService(orders, catalog)

	order, err := svc.Revise(context.Background(), "INV-3", []OrderItemRequest{
		{ItemName: "Widget", SKU: "SKU-1", Quantity: 2},
		{ItemName: "Gadget", SKU: "SKU-2", Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 2*4.0+3*9.0, order.TotalPrice)
	assert.Equal(t, 10, catalog.products["SKU-1"].InventoryCount, "unchanged quantity means no adjustment")
	assert.Equal(t, 7, catalog.products["SKU-2"].InventoryCount)
}

func TestReviseDroppedSkuIsNotRestored(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 4, InventoryCount: 10},
		&models.Product{SKU: "SKU-2", BasePrice: 9, InventoryCount: 10},
	)
	orders := newFakeOrderStore()
	require.NoError(t, orders.InsertOrder(context.Background(), &models.Order{
		InvoiceNumber: "INV-4",
		Items: models.OrderItems{
			{ItemName: "Widget", SKU: "SKU-1", Quantity: 2},
			{ItemName: "Gadget", SKU: "SKU-2", Quantity: 5},
		},
		Status: models.OrderStatusPending,
	}))
	svc := newTestOrderService(orders, catalog)

	order, err := svc.Revise(context.Background(), "INV-4", []OrderItemRequest{
		{ItemName: "Widget", SKU: "SKU-1", Quantity: 2},
	})
	require.NoError(t, err)

	assert.Len(t, order.Items, 1)
	assert.Equal(t, 10, catalog.products["SKU-2"].InventoryCount, "dropped sku gets no restore")
}

func TestReviseMissingOrder(t *testing.T) {
	svc := newTestOrderService(newFakeOrderStore(), newFakeCatalog())

	_, err := svc.Revise(context.Background(), "INV-MISSING", []OrderItemRequest{
		{ItemName: "Widget", SKU: "SKU-1", Quantity: 1},
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReviseValidatesAllItemsBeforeMutating(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 4, InventoryCount: 10},
		&models.Product{SKU: "SKU-2", BasePrice: 9, InventoryCount: 1},
	)
	orders := newFakeOrderStore()
	require.NoError(t, orders.InsertOrder(context.Background(), &models.Order{
		InvoiceNumber: "INV-5",
		Items:         models.OrderItems{{ItemName: "Widget", SKU: "SKU-1", Quantity: 1}},
		Status:        models.OrderStatusPending,
	}))
	svc := newTestOrderService(orders, catalog)

	_, err := svc.Revise(context.Background(), "INV-5", []OrderItemRequest{
		{ItemName: "Widget", SKU: "SKU-1", Quantity: 5},
		{ItemName: "Gadget", SKU: "SKU-2", Quantity: 3},
	})
	require.ErrorIs(t, err, models.ErrInsufficientStock)

	// Unlike submit, revise validates everything first: no inventory was
	// touched and the order body is unchanged.
	assert.Equal(t, 10, catalog.products["SKU-1"].InventoryCount)
	stored, err := orders.GetOrderByInvoice(context.Background(), "INV-5")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}

func TestDeleteDoesNotRestoreInventory(t *testing.T) {
	catalog := newFakeCatalog(
		&models.Product{SKU: "SKU-1", BasePrice: 4, InventoryCount: 6},
	)
	orders := newFakeOrderStore()
	require.NoError(t, orders.InsertOrder(context.Background(), &models.Order{
		InvoiceNumber: "INV-6",
		Items:         models.OrderItems{{ItemName: "Widget", SKU: "SKU-1", Quantity: 4}},
		Status:        models.OrderStatusPending,
	}))
	svc := newTestOrderService(orders, catalog)

	require.NoError(t, svc.Delete(context.Background(), "INV-6"))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 6, catalog.products["SKU-1"].InventoryCount)

	assert.ErrorIs(t, svc.Delete(context.Background(), "INV-6"), models.ErrNotFound)
}

func TestSearchMatchesNothingWithoutOrderNames(t *testing.T) {
	orders := newFakeOrderStore()
	require.NoError(t, orders.InsertOrder(context.Background(), &models.Order{
		InvoiceNumber: "INV-7",
		Items:         models.OrderItems{{ItemName: "Widget", SKU: "SKU-1", Quantity: 1}},
		Status:        models.OrderStatusPending,
	}))
	svc := newTestOrderService(orders, newFakeCatalog())

	// No write path sets an order name, so any query comes back empty.
	found, err := svc.Search(context.Background(), "INV")
	require.NoError(t, err)
	assert.Empty(t, found)
}
