// Package numerator provides the PostgreSQL implementation of document
// auto-numbering. It implements core/numerator.Generator.
package numerator

import (
	"context"
	"fmt"
	"time"

	corenumerator "stockroom/internal/core/numerator"
	"stockroom/internal/infrastructure/storage/postgres"
)

// Service provides document numbering using PostgreSQL.
// The counter advance is a single UPSERT with RETURNING, so concurrent
// callers always receive distinct values. The querier is resolved from
// context: called inside the document's create transaction the counter
// row stays locked until commit, and a rollback releases the number
// with it.
type Service struct {
	txManager *postgres.TxManager
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a new numerator service.
func New(txManager *postgres.TxManager) *Service {
	return &Service{txManager: txManager}
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-XXXXX (e.g., ORD-00001).
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	key := cfg.SequenceKey(period)

	var num int64
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return "", fmt.Errorf("next number for %s: %w", key, err)
	}

	return cfg.FormatNumber(period, num), nil
}

// SetNextNumber sets the current counter value (for migration purposes).
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	key := cfg.SequenceKey(period)

	var result int64
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set number for %s: %w", key, err)
	}

	return nil
}
