package stock

import (
	"context"
	"fmt"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/pkg/logger"
)

// Service provides business operations for the stock register.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new stock register service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// RecordMovement appends a movement to the register.
//
// For OUT movements the available balance is recomputed inside the same
// transaction after locking the product row, so two concurrent OUT
// requests cannot both pass the check against the same stock.
func (s *Service) RecordMovement(ctx context.Context, productID id.ID, recordType entity.RecordType, quantity int64, user string) (*Movement, error) {
	if !entity.ValidRecordType(recordType) {
		return nil, apperror.NewValidation("movement type must be IN or OUT").
			WithDetail("field", "type").
			WithDetail("value", string(recordType))
	}
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be a positive integer").
			WithDetail("field", "quantity")
	}

	m := NewMovement(productID, recordType, quantity, user)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockProduct(ctx, productID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("product", productID.String())
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if recordType == entity.RecordTypeOut {
			available, err := s.repo.SumByProduct(ctx, productID)
			if err != nil {
				return fmt.Errorf("sum movements: %w", err)
			}
			if quantity > available {
				return apperror.NewInsufficientStock(productID.String(), quantity, available)
			}
		}

		if err := s.repo.CreateMovement(ctx, m); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recorded stock movement",
		"product_id", productID,
		"type", recordType,
		"quantity", quantity,
	)

	return &m, nil
}

// RecordDocumentMovements records movements generated by a document.
// Must be called within the document's transaction; the caller is
// responsible for locking the affected product rows first.
func (s *Service) RecordDocumentMovements(ctx context.Context, movements []Movement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if m.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if m.RecorderID == nil || id.IsNil(*m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "recorded stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)

	return nil
}

// CheckAndLockStock validates stock availability with pessimistic locking.
// Must be called within a transaction before recording OUT movements.
func (s *Service) CheckAndLockStock(ctx context.Context, productID id.ID, requiredQty int64) error {
	if err := s.repo.LockProduct(ctx, productID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("product", productID.String())
		}
		return fmt.Errorf("lock product: %w", err)
	}

	available, err := s.repo.SumByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("sum movements: %w", err)
	}
	if requiredQty > available {
		return apperror.NewInsufficientStock(productID.String(), requiredQty, available)
	}
	return nil
}

// CurrentStock returns the derived stock level for a product.
func (s *Service) CurrentStock(ctx context.Context, productID id.ID) (int64, error) {
	sum, err := s.repo.SumByProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

// CurrentStockBatch returns derived stock levels keyed by product ID.
func (s *Service) CurrentStockBatch(ctx context.Context, productIDs []id.ID) (map[id.ID]int64, error) {
	if len(productIDs) == 0 {
		return map[id.ID]int64{}, nil
	}
	return s.repo.SumByProducts(ctx, productIDs)
}

// AdjustQuantity sets the stock level of a product to target by recording
// an implicit IN or OUT movement for the difference. Direct quantity edits
// go through here so the register stays the source of truth.
func (s *Service) AdjustQuantity(ctx context.Context, productID id.ID, target int64, user string) (*Movement, error) {
	if target < 0 {
		return nil, apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	var m *Movement
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockProduct(ctx, productID); err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("product", productID.String())
			}
			return fmt.Errorf("lock product: %w", err)
		}

		current, err := s.repo.SumByProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("sum movements: %w", err)
		}

		delta := target - current
		if delta == 0 {
			return nil
		}

		recordType := entity.RecordTypeIn
		if delta < 0 {
			recordType = entity.RecordTypeOut
			delta = -delta
		}

		mv := NewMovement(productID, recordType, delta, user)
		if err := s.repo.CreateMovement(ctx, mv); err != nil {
			return fmt.Errorf("create movement: %w", err)
		}
		m = &mv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// History returns movement history for a product in append order,
// oldest first.
func (s *Service) History(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error) {
	return s.repo.ListByProduct(ctx, productID, filter)
}

// List returns movements across all products, newest first.
func (s *Service) List(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return s.repo.List(ctx, filter)
}
