package service

import (
	"context"
	"fmt"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// CatalogStore is the full product persistence surface.
type CatalogStore interface {
	ProductStore
	InsertProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProductFields(ctx context.Context, id int64, fields map[string]interface{}) (int64, error)
	DeleteProduct(ctx context.Context, id int64) error
	SearchProductsByName(ctx context.Context, q string) ([]models.Product, error)
}

// CatalogService handles product CRUD and search.
type CatalogService struct {
	products CatalogStore
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products CatalogStore) *CatalogService {
	return &CatalogService{
		products: products,
		logger:   util.GetLogger(),
	}
}

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	SKU            string  `json:"sku" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	BasePrice      float64 `json:"basePrice"`
	InventoryCount int     `json:"inventoryCount"`
	Type           string  `json:"type"`
	Brand          string  `json:"brand"`
	Weight         float64 `json:"weight"`
}

// Create inserts a new product document.
func (s *CatalogService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req.BasePrice < 0 || req.InventoryCount < 0 {
		return nil, fmt.Errorf("negative price or inventory: %w", models.ErrInvalidInput)
	}

	product := &models.Product{
		SKU:            req.SKU,
		Name:           req.Name,
		BasePrice:      req.BasePrice,
		InventoryCount: req.InventoryCount,
		Type:           req.Type,
		Brand:          req.Brand,
		Weight:         req.Weight,
	}

	if err := s.products.InsertProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("sku", product.SKU),
		zap.Int64("id", product.ID))
	return product, nil
}

// List returns all products.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.ListProducts(ctx)
}

// updatableColumns maps request field names to product columns for the
// partial merge. Anything outside this map is silently dropped.
var updatableColumns = map[string]string{
	"sku":            "sku",
	"name":           "name",
	"basePrice":      "base_price",
	"inventoryCount": "inventory_count",
	"type":           "type",
	"brand":          "brand",
	"weight":         "weight",
}

// Update applies a partial field merge to a product. Price and stock
// invariants are not re-validated here. Returns the matched-row count, the
// store's own update result.
func (s *CatalogService) Update(ctx context.Context, id int64, fields map[string]interface{}) (int64, error) {
	columns := make(map[string]interface{}, len(fields))
	for name, val := range fields {
		if col, ok := updatableColumns[name]; ok {
			columns[col] = val
		}
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("no updatable fields: %w", models.ErrInvalidInput)
	}

	matched, err := s.products.UpdateProductFields(ctx, id, columns)
	if err != nil {
		return 0, fmt.Errorf("failed to update product: %w", err)
	}
	return matched, nil
}

// Delete removes a product. Orders referencing the product are untouched;
// nothing prevents deleting a product with live orders.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.products.DeleteProduct(ctx, id)
}

// Search performs a case-insensitive name substring match.
func (s *CatalogService) Search(ctx context.Context, q string) ([]models.Product, error) {
	return s.products.SearchProductsByName(ctx, q)
}
