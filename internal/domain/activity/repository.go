package activity

import (
	"context"
)

// Repository defines operations for the activity log.
type Repository interface {
	// Create appends one entry
	Create(ctx context.Context, entry Entry) error

	// LockUserAction serializes concurrent dedup checks for the same
	// user+action pair. Must be called inside a transaction; the lock is
	// released at transaction end.
	LockUserAction(ctx context.Context, user, action string) error

	// GetLatest returns the single most recent entry in the log,
	// regardless of user or action, or NotFound if the log is empty
	GetLatest(ctx context.Context) (*Entry, error)

	// ListRecent returns the most recent entries in descending time order
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}
