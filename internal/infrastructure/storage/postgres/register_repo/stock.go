// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/registers/stock"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "stock_movements"
	productsTable       = "products"
)

var movementCols = []string{
	"line_id", "recorder_id", "recorder_type",
	"period", "record_type",
	"product_id", "quantity", "user_login", "created_at",
}

// StockRepo implements stock.Repository.
// Movements are append-only: there is no update or delete path here.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMovement appends one movement line.
func (r *StockRepo) CreateMovement(ctx context.Context, m stock.Movement) error {
	return r.CreateMovements(ctx, []stock.Movement{m})
}

// CreateMovements batch inserts movements.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.RecorderID, m.RecorderType,
				m.Period, m.RecordType,
				m.ProductID, m.Quantity, m.User, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementCols, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert. Prefer calling within tx.
	q := r.builder.Insert(stockMovementsTable).Columns(movementCols...)

	for _, m := range movements {
		q = q.Values(
			m.LineID, m.RecorderID, m.RecorderType,
			m.Period, m.RecordType,
			m.ProductID, m.Quantity, m.User, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// LockProduct acquires a row lock on the product, serializing concurrent
// stock checks. The lock holds until transaction end.
func (r *StockRepo) LockProduct(ctx context.Context, productID id.ID) error {
	sql := fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", productsTable)

	querier := r.txManager.GetQuerier(ctx)
	var locked id.ID
	err := querier.QueryRow(ctx, sql, productID).Scan(&locked)
	if err == pgx.ErrNoRows {
		return apperror.NewNotFound("product", productID.String())
	}
	if err != nil {
		return fmt.Errorf("lock product: %w", err)
	}

	return nil
}

// SumByProduct returns the signed movement sum for one product.
func (r *StockRepo) SumByProduct(ctx context.Context, productID id.ID) (int64, error) {
	sql := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'IN' THEN quantity ELSE -quantity END),
			0
		)
		FROM %s
		WHERE product_id = $1
	`, stockMovementsTable)

	var sum int64
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, productID).Scan(&sum)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("sum movements: %w", err)
	}

	return sum, nil
}

// SumByProducts returns signed movement sums keyed by product ID.
// Products without movements are absent from the map.
func (r *StockRepo) SumByProducts(ctx context.Context, productIDs []id.ID) (map[id.ID]int64, error) {
	sums := make(map[id.ID]int64, len(productIDs))
	if len(productIDs) == 0 {
		return sums, nil
	}

	q := r.builder.Select(
		"product_id",
		"COALESCE(SUM(CASE WHEN record_type = 'IN' THEN quantity ELSE -quantity END), 0) AS total",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"product_id": productIDs}).
		GroupBy("product_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query sums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID id.ID
		var total int64
		if err := rows.Scan(&productID, &total); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		sums[productID] = total
	}

	return sums, rows.Err()
}

// ListByProduct returns movement history for a product in append order,
// oldest first.
func (r *StockRepo) ListByProduct(ctx context.Context, productID id.ID, filter stock.MovementFilter) ([]stock.Movement, error) {
	return r.selectMovements(ctx, r.historyQuery(productID, filter))
}

// List returns movements across all products, newest first.
func (r *StockRepo) List(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, error) {
	return r.selectMovements(ctx, r.listQuery(filter))
}

func (r *StockRepo) historyQuery(productID id.ID, filter stock.MovementFilter) squirrel.SelectBuilder {
	return r.movementSelect(filter, "period ASC", "created_at ASC").
		Where(squirrel.Eq{"product_id": productID})
}

func (r *StockRepo) listQuery(filter stock.MovementFilter) squirrel.SelectBuilder {
	return r.movementSelect(filter, "period DESC", "created_at DESC")
}

func (r *StockRepo) movementSelect(filter stock.MovementFilter, orderBy ...string) squirrel.SelectBuilder {
	q := r.builder.Select(movementCols...).
		From(stockMovementsTable)

	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy(orderBy...)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return q
}

func (r *StockRepo) selectMovements(ctx context.Context, q squirrel.SelectBuilder) ([]stock.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}
