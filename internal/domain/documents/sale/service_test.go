package sale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/registers/stock"
)

// memRepo is an in-memory sale Repository.
type memRepo struct {
	docs  map[id.ID]*Sale
	lines map[id.ID][]Line
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[id.ID]*Sale), lines: make(map[id.ID][]Line)}
}

func (r *memRepo) Create(ctx context.Context, doc *Sale) error {
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("sale", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *memRepo) GetByNumber(ctx context.Context, number string) (*Sale, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("sale", number)
}

func (r *memRepo) Update(ctx context.Context, doc *Sale) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("sale", doc.ID.String())
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(r.docs, docID)
	delete(r.lines, docID)
	return nil
}

func (r *memRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return r.lines[docID], nil
}

func (r *memRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	r.lines[docID] = lines
	return nil
}

func (r *memRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	out := domain.ListResult[*Sale]{}
	for _, doc := range r.docs {
		cp := *doc
		out.Items = append(out.Items, &cp)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

// fakeLedger records movement writes and can simulate shortages.
type fakeLedger struct {
	available map[id.ID]int64
	written   []stock.Movement
}

func (l *fakeLedger) CheckAndLockStock(ctx context.Context, productID id.ID, requiredQty int64) error {
	if requiredQty > l.available[productID] {
		return apperror.NewInsufficientStock(productID.String(), requiredQty, l.available[productID])
	}
	return nil
}

func (l *fakeLedger) RecordDocumentMovements(ctx context.Context, movements []stock.Movement) error {
	l.written = append(l.written, movements...)
	return nil
}

// fakeProducts resolves SKUs from a fixed map.
type fakeProducts struct {
	bySKU map[string]*product.Product
}

func (f *fakeProducts) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	p, ok := f.bySKU[sku]
	if !ok {
		return nil, apperror.NewNotFound("product", sku)
	}
	return p, nil
}

func newTestService() (*Service, *memRepo, *fakeLedger, *fakeProducts) {
	repo := newMemRepo()
	ledger := &fakeLedger{available: make(map[id.ID]int64)}
	products := &fakeProducts{bySKU: make(map[string]*product.Product)}
	svc := NewService(repo, &numerator.MockGenerator{}, tx.MockManager{}, ledger, products)
	return svc, repo, ledger, products
}

func TestCreateAssignsNumber(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestService()

	doc := New("ACME", "acme@example.com")
	doc.AddLine("A1", "Widget", 2, types.MustMoney("3.50"))
	require.NoError(t, svc.Create(ctx, doc))

	assert.Equal(t, "SAL-00001", doc.Number)
	assert.Equal(t, "7.00", types.FormatAmount(doc.Total))

	stored, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "SAL-00001", stored.Number)
	assert.Len(t, stored.Lines, 1)
	_ = repo
}

func TestCreateSequentialNumbers(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	first := New("ACME", "")
	first.AddLine("A1", "Widget", 1, types.MustMoney("1.00"))
	require.NoError(t, svc.Create(ctx, first))

	second := New("ACME", "")
	second.AddLine("A1", "Widget", 1, types.MustMoney("1.00"))
	require.NoError(t, svc.Create(ctx, second))

	assert.Equal(t, "SAL-00001", first.Number)
	assert.Equal(t, "SAL-00002", second.Number)
}

func TestCompleteWritesOutMovements(t *testing.T) {
	ctx := context.Background()
	svc, _, ledger, products := newTestService()

	p := product.New("PRD-00001", "Widget", "A1")
	products.bySKU["A1"] = p
	ledger.available[p.ID] = 10

	doc := New("ACME", "")
	doc.AddLine("A1", "Widget", 4, types.MustMoney("2.00"))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.SetStatus(ctx, doc.ID, entity.StatusConfirmed)
	require.NoError(t, err)
	updated, err := svc.SetStatus(ctx, doc.ID, entity.StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, updated.Status)
	require.Len(t, ledger.written, 1)
	assert.Equal(t, p.ID, ledger.written[0].ProductID)
	assert.Equal(t, entity.RecordTypeOut, ledger.written[0].RecordType)
	assert.Equal(t, int64(4), ledger.written[0].Quantity)
	require.NotNil(t, ledger.written[0].RecorderID)
	assert.Equal(t, doc.ID, *ledger.written[0].RecorderID)
}

func TestCompleteInsufficientStockAborts(t *testing.T) {
	ctx := context.Background()
	svc, _, ledger, products := newTestService()

	p := product.New("PRD-00001", "Widget", "A1")
	products.bySKU["A1"] = p
	ledger.available[p.ID] = 2

	doc := New("ACME", "")
	doc.AddLine("A1", "Widget", 5, types.MustMoney("2.00"))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.SetStatus(ctx, doc.ID, entity.StatusConfirmed)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, doc.ID, entity.StatusCompleted)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Empty(t, ledger.written)

	// Status did not change.
	stored, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, stored.Status)
}

func TestCompleteSkipsUnknownSKU(t *testing.T) {
	ctx := context.Background()
	svc, _, ledger, _ := newTestService()

	doc := New("ACME", "")
	doc.AddLine("GHOST", "Not in catalog", 3, types.MustMoney("1.00"))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.SetStatus(ctx, doc.ID, entity.StatusConfirmed)
	require.NoError(t, err)
	updated, err := svc.SetStatus(ctx, doc.ID, entity.StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, updated.Status)
	assert.Empty(t, ledger.written)
}

func TestUpdateFinalSaleRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	doc := New("ACME", "")
	doc.AddLine("A1", "Widget", 1, types.MustMoney("1.00"))
	require.NoError(t, svc.Create(ctx, doc))

	_, err := svc.SetStatus(ctx, doc.ID, entity.StatusCancelled)
	require.NoError(t, err)

	stored, err := svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	err = svc.Update(ctx, stored)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}
