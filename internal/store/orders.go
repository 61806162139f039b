package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// InsertOrder persists a new order document
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (invoice_number, items, total_price, order_date, status, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return s.db.GetContext(ctx, &order.ID, query,
		order.InvoiceNumber, order.Items, order.TotalPrice,
		order.OrderDate, order.Status, order.IdempotencyKey)
}

// GetOrderByInvoice retrieves an order by invoice number
func (s *Store) GetOrderByInvoice(ctx context.Context, invoiceNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE invoice_number = $1", invoiceNumber)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", invoiceNumber, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByIdempotencyKey retrieves an order by idempotency key. Returns
// nil, nil when no order carries the key.
func (s *Store) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE idempotency_key = $1", key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves all orders
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY order_date DESC")
	return orders, err
}

// SearchOrdersByName matches orders on the order_name column. No write path
// populates that column, so the result set is always empty; the filter is
// kept as the upstream API defines it.
func (s *Store) SearchOrdersByName(ctx context.Context, q string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE order_name ILIKE '%' || $1 || '%'", q)
	return orders, err
}

// ReplaceOrder overwrites an order's item list, total and date, keeping the
// invoice number and other original fields.
func (s *Store) ReplaceOrder(ctx context.Context, order *models.Order) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET items = $1, total_price = $2, order_date = $3, status = $4
		WHERE invoice_number = $5`,
		order.Items, order.TotalPrice, order.OrderDate, order.Status, order.InvoiceNumber)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", order.InvoiceNumber, models.ErrNotFound)
	}
	return nil
}

// DeleteOrder removes an order by invoice number
func (s *Store) DeleteOrder(ctx context.Context, invoiceNumber string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM orders WHERE invoice_number = $1", invoiceNumber)
	return err
}
