package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/types"
	"stockroom/internal/domain/catalogs/product"
)

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[product.Product]()

	// Embedded Catalog -> BaseCatalog -> BaseEntity chain must flatten.
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "version")
	assert.Contains(t, cols, "code")
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "sku")
	assert.Contains(t, cols, "unit_cost")
	assert.Contains(t, cols, "unit_price")
}

func TestStructToMap(t *testing.T) {
	p := product.New("PRD-00001", "Widget", "A1")
	p.UnitPrice = types.MustMoney("3.50")

	m := StructToMap(p)
	require.NotNil(t, m)

	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, "PRD-00001", m["code"])
	assert.Equal(t, "Widget", m["name"])
	assert.Equal(t, "A1", m["sku"])
	assert.Equal(t, p.UnitPrice, m["unit_price"])
}

func TestStructToMapSkipsUntagged(t *testing.T) {
	type row struct {
		Keep string `db:"keep"`
		Skip string `db:"-"`
		None string
	}

	m := StructToMap(row{Keep: "a", Skip: "b", None: "c"})
	assert.Equal(t, map[string]any{"keep": "a"}, m)
}

func TestStructToMapNonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
