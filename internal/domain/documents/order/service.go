package order

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/pkg/logger"
)

// Service provides business operations for order documents.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new order service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new order document.
// The number is assigned from an atomic database sequence, so concurrent
// creations always receive distinct numbers.
func (s *Service) Create(ctx context.Context, doc *Order) error {
	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.Number == "" {
			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ORD"), time.Now())
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves an order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Order, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", docID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Update updates an order document.
func (s *Service) Update(ctx context.Context, doc *Order) error {
	if doc.IsFinal() {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"completed or cancelled orders cannot be modified",
		).WithDetail("order_id", doc.ID.String())
	}

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete removes an order document with its lines.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	_, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("order", docID.String())
		}
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
}

// SetStatus transitions an order to a new status.
func (s *Service) SetStatus(ctx context.Context, docID id.ID, status entity.Status) (*Order, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.Transition(status); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order status changed", "id", doc.ID, "status", status)
	return doc, nil
}

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	return s.repo.List(ctx, filter)
}
