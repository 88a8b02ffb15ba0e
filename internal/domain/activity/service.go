package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/tx"
	"stockroom/pkg/logger"
)

// DedupWindow is the suppression window for identical user+action pairs.
const DedupWindow = 30 * time.Second

// DefaultListLimit caps activity listings when the caller gives no limit.
const DefaultListLimit = 50

// Service provides business operations for the activity log.
type Service struct {
	repo      Repository
	txManager tx.Manager

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		now:       time.Now,
	}
}

// Log appends an activity entry unless the most recent entry in the log
// carries the same user and action and was written within the dedup
// window. Any other entry in between, even for the same user, breaks
// the streak and the new entry is appended.
//
// Write failures never propagate: the mutating operation that triggered
// the log call must still succeed. Failures go to the operator channel.
func (s *Service) Log(ctx context.Context, user, action string, details any) {
	if err := s.log(ctx, user, action, details); err != nil {
		logger.Error(ctx, "activity log write failed",
			"user", user,
			"action", action,
			"error", err,
		)
	}
}

// log does the actual dedup-checked write.
// The dedup check and the insert run in one transaction holding a lock
// on the user+action pair, so concurrent identical calls cannot both
// pass the check.
func (s *Service) log(ctx context.Context, user, action string, details any) error {
	if user == "" || action == "" {
		return apperror.NewValidation("user and action are required")
	}

	var payload json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		payload = b
	}

	now := s.now().UTC()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockUserAction(ctx, user, action); err != nil {
			return fmt.Errorf("lock user action: %w", err)
		}

		latest, err := s.repo.GetLatest(ctx)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("get latest: %w", err)
		}
		if latest != nil && latest.User == user && latest.Action == action &&
			now.Sub(latest.Time) <= DedupWindow {
			// Suppressed, not an error.
			return nil
		}

		return s.repo.Create(ctx, NewEntry(user, action, payload, now))
	})
}

// Recent returns the most recent entries in descending time order.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
