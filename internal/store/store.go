package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertProduct inserts a new product document
func (s *Store) InsertProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (sku, name, base_price, inventory_count, type, brand, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, product, query,
		product.SKU, product.Name, product.BasePrice, product.InventoryCount,
		product.Type, product.Brand, product.Weight)
}

// GetProductBySKU retrieves a product by SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = $1", sku)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %s: %w", sku, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves all products
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// UpdateProductFields applies a partial field merge to a product. Keys are
// column names already whitelisted by the caller. Returns the number of
// matched rows.
func (s *Store) UpdateProductFields(ctx context.Context, id int64, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("no fields to update: %w", models.ErrInvalidInput)
	}

	sets := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	i := 1
	for col, val := range fields {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), i)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteProduct deletes a product by ID. Deleting an absent product is not
// an error.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// SearchProductsByName performs a case-insensitive substring match on the
// product name.
func (s *Store) SearchProductsByName(ctx context.Context, q string) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY id", q)
	return products, err
}

// AdjustInventory applies a signed delta to a product's inventory count.
// The adjustment is unconditional: stock checks happen in the service
// before this call, so concurrent submissions can still race past each
// other (documented contract, no FOR UPDATE here).
func (s *Store) AdjustInventory(ctx context.Context, sku string, delta int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET inventory_count = inventory_count + $1 WHERE sku = $2",
		delta, sku)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", sku, models.ErrNotFound)
	}
	return nil
}
