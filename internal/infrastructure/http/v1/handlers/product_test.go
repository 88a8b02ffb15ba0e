package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/registers/stock"
)

// memProductRepo is an in-memory product Repository.
type memProductRepo struct {
	items map[id.ID]*product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: make(map[id.ID]*product.Product)}
}

func (r *memProductRepo) Create(ctx context.Context, item *product.Product) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, itemID id.ID) (*product.Product, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("product", itemID.String())
	}
	cp := *item
	return &cp, nil
}

func (r *memProductRepo) GetByCode(ctx context.Context, code string) (*product.Product, error) {
	for _, item := range r.items {
		if item.Code == code {
			cp := *item
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("product", code)
}

func (r *memProductRepo) Update(ctx context.Context, item *product.Product) error {
	if _, ok := r.items[item.ID]; !ok {
		return apperror.NewNotFound("product", item.ID.String())
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, itemID id.ID) error {
	delete(r.items, itemID)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	out := domain.ListResult[*product.Product]{Limit: filter.Limit, Offset: filter.Offset}
	for _, item := range r.items {
		cp := *item
		out.Items = append(out.Items, &cp)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (r *memProductRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	_, ok := r.items[itemID]
	return ok, nil
}

func (r *memProductRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, item := range r.items {
		if item.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	for _, item := range r.items {
		if item.SKU == sku {
			cp := *item
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, itemID)
}

// memActivityRepo captures activity entries written by handlers.
type memActivityRepo struct {
	entries []activity.Entry
}

func (r *memActivityRepo) Create(ctx context.Context, entry activity.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memActivityRepo) LockUserAction(ctx context.Context, user, action string) error {
	return nil
}

func (r *memActivityRepo) GetLatest(ctx context.Context) (*activity.Entry, error) {
	if len(r.entries) == 0 {
		return nil, apperror.NewNotFound("activity entry", "latest")
	}
	e := r.entries[len(r.entries)-1]
	return &e, nil
}

func (r *memActivityRepo) ListRecent(ctx context.Context, limit int) ([]activity.Entry, error) {
	out := make([]activity.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// stubStockRepo satisfies stock.Repository for handler wiring.
type stubStockRepo struct{}

func (stubStockRepo) CreateMovement(ctx context.Context, m stock.Movement) error { return nil }
func (stubStockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	return nil
}
func (stubStockRepo) LockProduct(ctx context.Context, productID id.ID) error { return nil }
func (stubStockRepo) SumByProduct(ctx context.Context, productID id.ID) (int64, error) {
	return 0, nil
}
func (stubStockRepo) SumByProducts(ctx context.Context, productIDs []id.ID) (map[id.ID]int64, error) {
	return map[id.ID]int64{}, nil
}
func (stubStockRepo) ListByProduct(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]stock.Movement, error) {
	return nil, nil
}
func (stubStockRepo) List(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, error) {
	return nil, nil
}

func newProductTestHandler() (*ProductHandler, *memProductRepo, *memActivityRepo) {
	productRepo := newMemProductRepo()
	activityRepo := &memActivityRepo{}

	products := product.NewService(productRepo, tx.MockManager{}, &numerator.MockGenerator{})
	stockSvc := stock.NewService(stubStockRepo{}, tx.MockManager{})
	activitySvc := activity.NewService(activityRepo, tx.MockManager{})

	handler := NewProductHandler(NewBaseHandler(), products, stockSvc, activitySvc)
	return handler, productRepo, activityRepo
}

func newTestContext(t *testing.T, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	ctx := appctx.WithUser(req.Context(), &appctx.UserContext{
		UserID: id.New().String(),
		Login:  "alice",
	})
	c.Request = req.WithContext(ctx)
	return c, w
}

func activityActions(repo *memActivityRepo) []string {
	actions := make([]string, len(repo.entries))
	for i, e := range repo.entries {
		actions[i] = e.Action
	}
	return actions
}

func TestProductCreateRecordsActivity(t *testing.T) {
	handler, _, activityRepo := newProductTestHandler()

	c, w := newTestContext(t, http.MethodPost, "/products",
		`{"name":"Widget","sku":"WID-1"}`)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, activityRepo.entries, 1)
	assert.Equal(t, "product.create", activityRepo.entries[0].Action)
	assert.Equal(t, "alice", activityRepo.entries[0].User)
	assert.Contains(t, string(activityRepo.entries[0].Details), "WID-1")
}

func TestProductUpdateRecordsActivity(t *testing.T) {
	handler, productRepo, activityRepo := newProductTestHandler()

	existing := product.New("PRD-00001", "Widget", "WID-1")
	require.NoError(t, productRepo.Create(context.Background(), existing))

	c, w := newTestContext(t, http.MethodPut, "/products/"+existing.ID.String(),
		`{"name":"Widget XL","sku":"WID-1","version":1}`)
	c.Params = gin.Params{{Key: "id", Value: existing.ID.String()}}
	handler.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"product.update"}, activityActions(activityRepo))

	updated, err := productRepo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", updated.Name)
}

func TestProductDeleteRecordsActivity(t *testing.T) {
	handler, productRepo, activityRepo := newProductTestHandler()

	existing := product.New("PRD-00001", "Widget", "WID-1")
	require.NoError(t, productRepo.Create(context.Background(), existing))

	c, w := newTestContext(t, http.MethodDelete, "/products/"+existing.ID.String(), "")
	c.Params = gin.Params{{Key: "id", Value: existing.ID.String()}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"product.delete"}, activityActions(activityRepo))

	_, err := productRepo.GetByID(context.Background(), existing.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProductCreateFailureWritesNoActivity(t *testing.T) {
	handler, productRepo, activityRepo := newProductTestHandler()

	existing := product.New("PRD-00001", "Widget", "WID-1")
	require.NoError(t, productRepo.Create(context.Background(), existing))

	// Duplicate SKU is rejected before any activity entry is written.
	c, _ := newTestContext(t, http.MethodPost, "/products",
		`{"name":"Other","sku":"WID-1"}`)
	handler.Create(c)

	assert.Empty(t, activityRepo.entries)
	assert.NotEmpty(t, c.Errors)
}
