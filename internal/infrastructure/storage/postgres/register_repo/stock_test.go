package register_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/registers/stock"
)

func TestHistoryQueryOrdersOldestFirst(t *testing.T) {
	repo := NewStockRepo(nil)

	sql, args, err := repo.historyQuery(id.New(), stock.MovementFilter{}).ToSql()
	require.NoError(t, err)

	// Per-product history replays the register in append order.
	assert.Contains(t, sql, "ORDER BY period ASC, created_at ASC")
	assert.Contains(t, sql, "product_id = $1")
	assert.Len(t, args, 1)
}

func TestListQueryOrdersNewestFirst(t *testing.T) {
	repo := NewStockRepo(nil)

	sql, _, err := repo.listQuery(stock.MovementFilter{Limit: 20, Offset: 40}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "ORDER BY period DESC, created_at DESC")
	assert.Contains(t, sql, "LIMIT 20")
	assert.Contains(t, sql, "OFFSET 40")
}
