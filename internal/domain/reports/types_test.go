package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/types"
)

func TestBuildInventoryTable(t *testing.T) {
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	rows := []InventoryRow{
		{SKU: "A1", Name: "Widget", Quantity: 5, UnitCost: types.MustMoney("2.00"), UnitPrice: types.MustMoney("3.50")},
		{SKU: "B2", Name: "Gadget", Quantity: 3, UnitCost: types.MustMoney("1.10"), UnitPrice: types.MustMoney("2.00")},
	}

	table := BuildInventoryTable(rows, at)

	require.Len(t, table.Rows, 2)
	// Widget: lineValue 5 x 2.00 = 10.00.
	assert.Equal(t, []string{"A1", "Widget", "5", "2.00", "3.50", "10.00"}, table.Rows[0])
	assert.Equal(t, []string{"B2", "Gadget", "3", "1.10", "2.00", "3.30"}, table.Rows[1])

	require.Len(t, table.Totals, 3)
	assert.Equal(t, TotalLine{Label: "Total Units", Value: "8"}, table.Totals[0])
	// Cost: 10.00 + 3.30, revenue: 17.50 + 6.00.
	assert.Equal(t, TotalLine{Label: "Total Cost Value", Value: "13.30"}, table.Totals[1])
	assert.Equal(t, TotalLine{Label: "Total Revenue", Value: "23.50"}, table.Totals[2])
}

func TestBuildInventoryTableSingleWidget(t *testing.T) {
	rows := []InventoryRow{
		{SKU: "A1", Name: "Widget", Quantity: 5, UnitCost: types.MustMoney("2.00"), UnitPrice: types.MustMoney("3.50")},
	}
	table := BuildInventoryTable(rows, time.Now())

	assert.Equal(t, "10.00", table.Rows[0][5])
	assert.Equal(t, "10.00", table.Totals[1].Value)
	assert.Equal(t, "17.50", table.Totals[2].Value)
}

func TestBuildInventoryTableEmpty(t *testing.T) {
	table := BuildInventoryTable(nil, time.Now())

	assert.Empty(t, table.Rows)
	require.Len(t, table.Totals, 3)
	assert.Equal(t, "0", table.Totals[0].Value)
	assert.Equal(t, "0.00", table.Totals[1].Value)
	assert.Equal(t, "0.00", table.Totals[2].Value)
	// Headers survive empty input.
	assert.Len(t, table.Columns, 6)
}

func TestBuildDocumentTable(t *testing.T) {
	rows := []DocumentRow{
		{SKU: "A1", Name: "Widget", Qty: 5, Price: types.MustMoney("2.00")},
		{SKU: "B2", Name: "Gadget", Qty: 2, Price: types.MustMoney("3.75")},
	}
	table := BuildDocumentTable("Order ORD-00001", rows, time.Now())

	assert.Equal(t, "Order ORD-00001", table.Title)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "10.00", table.Rows[0][4])
	assert.Equal(t, "7.50", table.Rows[1][4])

	require.Len(t, table.Totals, 2)
	assert.Equal(t, "7", table.Totals[0].Value)
	assert.Equal(t, "17.50", table.Totals[1].Value)
}

func TestBuildTablePrecision(t *testing.T) {
	// 0.1 x 3 style drift must not appear: full precision until format.
	rows := []DocumentRow{
		{SKU: "A1", Name: "Widget", Qty: 3, Price: types.MustMoney("0.10")},
	}
	table := BuildDocumentTable("Sale SAL-00001", rows, time.Now())
	assert.Equal(t, "0.30", table.Rows[0][4])
	assert.Equal(t, "0.30", table.Totals[1].Value)
}
