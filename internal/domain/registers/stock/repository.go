// Package stock provides the stock movement register.
package stock

import (
	"context"
	"time"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
)

// Repository defines operations for the stock register.
type Repository interface {
	// CreateMovement appends one movement line
	CreateMovement(ctx context.Context, m Movement) error

	// CreateMovements batch inserts movements (used during document completion)
	CreateMovements(ctx context.Context, movements []Movement) error

	// LockProduct acquires a row lock on the product, serializing
	// concurrent stock checks for it. Returns NotFound if the product
	// does not exist. Must be called inside a transaction.
	LockProduct(ctx context.Context, productID id.ID) error

	// SumByProduct returns the signed sum of all movements for a product
	SumByProduct(ctx context.Context, productID id.ID) (int64, error)

	// SumByProducts returns signed sums keyed by product ID
	SumByProducts(ctx context.Context, productIDs []id.ID) (map[id.ID]int64, error)

	// ListByProduct returns movement history for a product in append
	// order, oldest first
	ListByProduct(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error)

	// List returns movements across all products, newest first
	List(ctx context.Context, filter MovementFilter) ([]Movement, error)
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	RecordType *entity.RecordType
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}
