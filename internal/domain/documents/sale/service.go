package sale

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/registers/stock"
	"stockroom/pkg/logger"
)

// Ledger is the slice of the stock register used on sale completion.
type Ledger interface {
	CheckAndLockStock(ctx context.Context, productID id.ID, requiredQty int64) error
	RecordDocumentMovements(ctx context.Context, movements []stock.Movement) error
}

// ProductFinder resolves SKUs to catalog products.
type ProductFinder interface {
	FindBySKU(ctx context.Context, sku string) (*product.Product, error)
}

// Service provides business operations for sale documents.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
	ledger    Ledger
	products  ProductFinder
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	gen numerator.Generator,
	txManager tx.Manager,
	ledger Ledger,
	products ProductFinder,
) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
		txManager: txManager,
		ledger:    ledger,
		products:  products,
	}
}

// Create creates a new sale document.
// The number is assigned from an atomic database sequence, so concurrent
// creations always receive distinct numbers.
func (s *Service) Create(ctx context.Context, doc *Sale) error {
	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.Number == "" {
			number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SAL"), time.Now())
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

	logger.Info(ctx, "sale created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a sale with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("sale", docID.String())
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

// Update updates a sale document.
func (s *Service) Update(ctx context.Context, doc *Sale) error {
	if doc.IsFinal() {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"completed or cancelled sales cannot be modified",
		).WithDetail("sale_id", doc.ID.String())
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

// Delete removes a sale document with its lines.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	_, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("sale", docID.String())
		}
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
}

// SetStatus transitions a sale to a new status.
//
// Completion writes OUT movements for every line whose SKU resolves to a
// product, inside the same transaction as the status change. Lines with
// unknown SKUs are skipped: the reference is weak by design. Insufficient
// stock on any resolvable line aborts the whole transition.
func (s *Service) SetStatus(ctx context.Context, docID id.ID, status entity.Status) (*Sale, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.Transition(status); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if status == entity.StatusCompleted {
			if err := s.writeStockMovements(ctx, doc); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale status changed", "id", doc.ID, "status", status)
	return doc, nil
}

func (s *Service) writeStockMovements(ctx context.Context, doc *Sale) error {
	user := appctx.GetLogin(ctx)
	movements := make([]stock.Movement, 0, len(doc.Lines))

	for _, line := range doc.Lines {
		p, err := s.products.FindBySKU(ctx, line.SKU)
		if err != nil {
			if apperror.IsNotFound(err) {
				logger.Warn(ctx, "sale line sku not in catalog, no movement written",
					"sale_id", doc.ID, "sku", line.SKU)
				continue
			}
			return fmt.Errorf("resolve sku %s: %w", line.SKU, err)
		}

		if err := s.ledger.CheckAndLockStock(ctx, p.ID, line.Qty); err != nil {
			return err
		}

		movements = append(movements, stock.NewDocumentMovement(
			doc.ID, "Sale", p.ID, entity.RecordTypeOut, line.Qty, user,
		))
	}

	return s.ledger.RecordDocumentMovements(ctx, movements)
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}
