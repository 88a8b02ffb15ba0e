package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	products  map[id.ID]bool
	movements []Movement
}

func newMemRepo(productIDs ...id.ID) *memRepo {
	r := &memRepo{products: make(map[id.ID]bool)}
	for _, pid := range productIDs {
		r.products[pid] = true
	}
	return r
}

func (r *memRepo) CreateMovement(ctx context.Context, m Movement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *memRepo) CreateMovements(ctx context.Context, movements []Movement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *memRepo) LockProduct(ctx context.Context, productID id.ID) error {
	if !r.products[productID] {
		return apperror.NewNotFound("product", productID.String())
	}
	return nil
}

func (r *memRepo) SumByProduct(ctx context.Context, productID id.ID) (int64, error) {
	var sum int64
	for i := range r.movements {
		if r.movements[i].ProductID == productID {
			sum += r.movements[i].SignedQuantity()
		}
	}
	return sum, nil
}

func (r *memRepo) SumByProducts(ctx context.Context, productIDs []id.ID) (map[id.ID]int64, error) {
	out := make(map[id.ID]int64, len(productIDs))
	for _, pid := range productIDs {
		sum, _ := r.SumByProduct(ctx, pid)
		out[pid] = sum
	}
	return out, nil
}

func (r *memRepo) ListByProduct(ctx context.Context, productID id.ID, filter MovementFilter) ([]Movement, error) {
	var out []Movement
	for i := range r.movements {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memRepo) List(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	out := make([]Movement, 0, len(r.movements))
	for i := len(r.movements) - 1; i >= 0; i-- {
		out = append(out, r.movements[i])
	}
	return out, nil
}

func newTestService(productIDs ...id.ID) (*Service, *memRepo) {
	repo := newMemRepo(productIDs...)
	return NewService(repo, tx.MockManager{}), repo
}

func TestRecordMovement_InThenOut(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	svc, _ := newTestService(productID)

	_, err := svc.RecordMovement(ctx, productID, entity.RecordTypeIn, 50, "alice")
	require.NoError(t, err)

	stock, err := svc.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), stock)

	_, err = svc.RecordMovement(ctx, productID, entity.RecordTypeOut, 20, "alice")
	require.NoError(t, err)

	stock, err = svc.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), stock)
}

func TestRecordMovement_OutExceedsStock(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	svc, repo := newTestService(productID)

	_, err := svc.RecordMovement(ctx, productID, entity.RecordTypeIn, 50, "alice")
	require.NoError(t, err)
	_, err = svc.RecordMovement(ctx, productID, entity.RecordTypeOut, 20, "alice")
	require.NoError(t, err)

	// 40 > 30 available, movement must be rejected and not written.
	before := len(repo.movements)
	_, err = svc.RecordMovement(ctx, productID, entity.RecordTypeOut, 40, "alice")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Len(t, repo.movements, before)

	stock, stockErr := svc.CurrentStock(ctx, productID)
	require.NoError(t, stockErr)
	assert.Equal(t, int64(30), stock)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, int64(40), appErr.Details["requested"])
	assert.Equal(t, int64(30), appErr.Details["available"])
}

func TestRecordMovement_Validation(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	svc, _ := newTestService(productID)

	_, err := svc.RecordMovement(ctx, productID, entity.RecordTypeIn, 0, "alice")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	_, err = svc.RecordMovement(ctx, productID, "SIDEWAYS", 10, "alice")
	require.Error(t, err)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordMovement_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.RecordMovement(ctx, id.New(), entity.RecordTypeIn, 10, "alice")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdjustQuantity(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	svc, repo := newTestService(productID)

	// Raise from 0 to 25: implicit IN 25.
	m, err := svc.AdjustQuantity(ctx, productID, 25, "bob")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, entity.RecordTypeIn, m.RecordType)
	assert.Equal(t, int64(25), m.Quantity)

	// Lower from 25 to 10: implicit OUT 15.
	m, err = svc.AdjustQuantity(ctx, productID, 10, "bob")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, entity.RecordTypeOut, m.RecordType)
	assert.Equal(t, int64(15), m.Quantity)

	stock, err := svc.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stock)

	// Same target writes nothing.
	before := len(repo.movements)
	m, err = svc.AdjustQuantity(ctx, productID, 10, "bob")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Len(t, repo.movements, before)

	// Negative target rejected.
	_, err = svc.AdjustQuantity(ctx, productID, -1, "bob")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecordDocumentMovements(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	svc, repo := newTestService(productID)

	recorderID := id.New()
	movements := []Movement{
		NewDocumentMovement(recorderID, "Sale", productID, entity.RecordTypeOut, 3, "alice"),
	}
	require.NoError(t, svc.RecordDocumentMovements(ctx, movements))
	assert.Len(t, repo.movements, 1)

	// Missing recorder is rejected.
	bad := NewMovement(productID, entity.RecordTypeIn, 1, "alice")
	err := svc.RecordDocumentMovements(ctx, []Movement{bad})
	require.Error(t, err)
}

func TestHistoryAppendOrder(t *testing.T) {
	ctx := context.Background()
	productID := id.New()
	svc, _ := newTestService(productID)

	_, err := svc.RecordMovement(ctx, productID, entity.RecordTypeIn, 10, "alice")
	require.NoError(t, err)
	_, err = svc.RecordMovement(ctx, productID, entity.RecordTypeOut, 4, "alice")
	require.NoError(t, err)
	_, err = svc.RecordMovement(ctx, productID, entity.RecordTypeIn, 7, "alice")
	require.NoError(t, err)

	// History replays the register as it was written, oldest first.
	history, err := svc.History(ctx, productID, MovementFilter{})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.RecordTypeIn, history[0].RecordType)
	assert.Equal(t, int64(10), history[0].Quantity)
	assert.Equal(t, entity.RecordTypeOut, history[1].RecordType)
	assert.Equal(t, int64(4), history[1].Quantity)
	assert.Equal(t, entity.RecordTypeIn, history[2].RecordType)
	assert.Equal(t, int64(7), history[2].Quantity)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].CreatedAt.Before(history[i-1].CreatedAt))
	}
}

func TestMovementImmutability(t *testing.T) {
	// Movements carry a generated line ID and creation time.
	m := NewMovement(id.New(), entity.RecordTypeIn, 5, "alice")
	assert.False(t, id.IsNil(m.LineID))
	assert.WithinDuration(t, time.Now().UTC(), m.CreatedAt, time.Minute)
	assert.Equal(t, int64(5), m.SignedQuantity())

	out := NewMovement(id.New(), entity.RecordTypeOut, 5, "alice")
	assert.Equal(t, int64(-5), out.SignedQuantity())
}
