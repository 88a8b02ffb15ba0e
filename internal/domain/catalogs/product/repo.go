package product

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// FindBySKU retrieves a product by SKU.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// GetForUpdate retrieves a product with row lock.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)
}
