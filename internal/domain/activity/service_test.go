package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/tx"
)

// memRepo is an in-memory activity Repository.
type memRepo struct {
	entries   []Entry
	createErr error
}

func (r *memRepo) Create(ctx context.Context, entry Entry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memRepo) LockUserAction(ctx context.Context, user, action string) error {
	return nil
}

func (r *memRepo) GetLatest(ctx context.Context) (*Entry, error) {
	if len(r.entries) == 0 {
		return nil, apperror.NewNotFound("activity entry", "latest")
	}
	e := r.entries[len(r.entries)-1]
	return &e, nil
}

func (r *memRepo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	out := make([]Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func newTestService(start time.Time) (*Service, *memRepo, *time.Time) {
	repo := &memRepo{}
	svc := NewService(repo, tx.MockManager{})
	clock := start
	svc.now = func() time.Time { return clock }
	return svc, repo, &clock
}

func TestLogDedupWithinWindow(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, clock := newTestService(start)

	svc.Log(ctx, "alice", "created product Widget", nil)
	require.Len(t, repo.entries, 1)

	// Identical call 5 seconds later is suppressed.
	*clock = start.Add(5 * time.Second)
	svc.Log(ctx, "alice", "created product Widget", nil)
	assert.Len(t, repo.entries, 1)

	// 40 seconds after the first entry a new one is recorded.
	*clock = start.Add(40 * time.Second)
	svc.Log(ctx, "alice", "created product Widget", nil)
	assert.Len(t, repo.entries, 2)
}

func TestLogDifferentUserOrActionNotDeduped(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, clock := newTestService(start)

	svc.Log(ctx, "alice", "created product Widget", nil)
	*clock = start.Add(2 * time.Second)
	svc.Log(ctx, "bob", "created product Widget", nil)
	*clock = start.Add(4 * time.Second)
	svc.Log(ctx, "alice", "deleted product Widget", nil)

	assert.Len(t, repo.entries, 3)
}

func TestLogInterleavedActionBreaksStreak(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, clock := newTestService(start)

	svc.Log(ctx, "alice", "created product Widget", nil)
	*clock = start.Add(5 * time.Second)
	svc.Log(ctx, "alice", "recorded movement", nil)

	// The repeat is inside the window, but it no longer matches the
	// most recent entry, so it must be appended, not suppressed.
	*clock = start.Add(10 * time.Second)
	svc.Log(ctx, "alice", "created product Widget", nil)

	require.Len(t, repo.entries, 3)
	assert.Equal(t, "created product Widget", repo.entries[2].Action)
}

func TestLogSwallowsWriteFailure(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(time.Now())
	repo.createErr = errors.New("connection refused")

	// Must not panic and must not surface the error to the caller.
	svc.Log(ctx, "alice", "created product Widget", nil)
	assert.Empty(t, repo.entries)
}

func TestLogDetailsPayload(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(time.Now())

	svc.Log(ctx, "alice", "recorded movement", map[string]any{"type": "IN", "quantity": 50})
	require.Len(t, repo.entries, 1)
	assert.JSONEq(t, `{"type":"IN","quantity":50}`, string(repo.entries[0].Details))
}

func TestRecentOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, _, clock := newTestService(start)

	for i := 0; i < 5; i++ {
		*clock = start.Add(time.Duration(i) * time.Minute)
		svc.Log(ctx, "alice", "action "+string(rune('A'+i)), nil)
	}

	entries, err := svc.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first.
	assert.Equal(t, "action E", entries[0].Action)
	assert.Equal(t, "action D", entries[1].Action)
	assert.Equal(t, "action C", entries[2].Action)

	// Zero limit falls back to the default.
	entries, err = svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}
