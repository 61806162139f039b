package models

import (
	"database/sql"
	"database/sql/driver"
	"time"
)

// Product represents a catalog product. Inventory lives on the product row
// itself; order submission and revision adjust it in place.
type Product struct {
	ID             int64     `db:"id" json:"id"`
	SKU            string    `db:"sku" json:"sku"`
	Name           string    `db:"name" json:"name"`
	BasePrice      float64   `db:"base_price" json:"basePrice"`
	InventoryCount int       `db:"inventory_count" json:"inventoryCount"`
	Type           string    `db:"type" json:"type"`
	Brand          string    `db:"brand" json:"brand"`
	Weight         float64   `db:"weight" json:"weight"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// OrderItem is a line item as echoed back to the caller. The descriptive
// fields are taken from the request, not re-read from the catalog.
type OrderItem struct {
	ItemName string  `json:"itemName"`
	Type     string  `json:"type"`
	Brand    string  `json:"brand"`
	Weight   float64 `json:"weight"`
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
}

// OrderItems is stored as a single jsonb column so the order stays one
// document, matching the per-row atomicity contract.
type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) { return jsonbValue(i) }
func (i *OrderItems) Scan(src interface{}) error  { return jsonbScan(src, i) }

// Order represents a customer order keyed by its invoice number.
type Order struct {
	ID             int64          `db:"id" json:"-"`
	InvoiceNumber  string         `db:"invoice_number" json:"invoiceNumber"`
	Items          OrderItems     `db:"items" json:"items"`
	TotalPrice     float64        `db:"total_price" json:"totalPrice"`
	OrderDate      time.Time      `db:"order_date" json:"orderDate"`
	Status         string         `db:"status" json:"status"`
	IdempotencyKey string         `db:"idempotency_key" json:"-"`
	OrderName      sql.NullString `db:"order_name" json:"-"`
}

// Order statuses
const (
	OrderStatusPending = "Pending"
)

// User is an account for either service. The password is stored only as a
// bcrypt hash.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}
