package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/catalogs/product"
)

func testTable() Table {
	rows := []InventoryRow{
		{SKU: "A1", Name: "Widget", Quantity: 5, UnitCost: types.MustMoney("2.00"), UnitPrice: types.MustMoney("3.50")},
		{SKU: "B2", Name: "Gadget", Quantity: 3, UnitCost: types.MustMoney("1.10"), UnitPrice: types.MustMoney("2.00")},
	}
	return BuildInventoryTable(rows, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
}

func TestRenderPDF(t *testing.T) {
	content, err := RenderPDF(testTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestRenderPDFEmpty(t *testing.T) {
	content, err := RenderPDF(BuildInventoryTable(nil, time.Now()))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestRenderXLSX(t *testing.T) {
	table := testTable()
	content, err := RenderXLSX(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, table.Title, title)

	header, err := f.GetCellValue(sheetName, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Name", header)

	// First data row, line value column.
	value, err := f.GetCellValue(sheetName, "F5")
	require.NoError(t, err)
	assert.Equal(t, "10.00", value)

	// Totals block sits two rows below the last data row.
	label, err := f.GetCellValue(sheetName, "A9")
	require.NoError(t, err)
	assert.Equal(t, "Total Cost Value", label)
	total, err := f.GetCellValue(sheetName, "B9")
	require.NoError(t, err)
	assert.Equal(t, "13.30", total)
}

func TestRenderXLSXEmpty(t *testing.T) {
	table := BuildInventoryTable(nil, time.Now())
	content, err := RenderXLSX(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue(sheetName, "B7")
	require.NoError(t, err)
	assert.Equal(t, "0.00", total)
}

type stubProducts struct {
	items []*product.Product
}

func (s *stubProducts) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*product.Product], error) {
	return domain.ListResult[*product.Product]{Items: s.items, TotalCount: int64(len(s.items))}, nil
}

type stubStock struct {
	levels map[id.ID]int64
}

func (s *stubStock) CurrentStockBatch(_ context.Context, _ []id.ID) (map[id.ID]int64, error) {
	return s.levels, nil
}

func TestServiceInventory(t *testing.T) {
	p := product.New("PRD-00001", "Widget", "A1")
	p.UnitCost = types.MustMoney("2.00")
	p.UnitPrice = types.MustMoney("3.50")

	svc := NewService(
		&stubProducts{items: []*product.Product{p}},
		&stubStock{levels: map[id.ID]int64{p.ID: 5}},
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC) }

	pdf, err := svc.Inventory(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, MIMEPDF, pdf.MIME)
	assert.Equal(t, "inventory-report-2026-08-01.pdf", pdf.Filename)
	assert.True(t, bytes.HasPrefix(pdf.Content, []byte("%PDF")))

	xlsx, err := svc.Inventory(context.Background(), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, MIMEXLSX, xlsx.MIME)
	assert.Equal(t, "inventory-report-2026-08-01.xlsx", xlsx.Filename)

	// Both exports come from the same table, so the totals match.
	f, err := excelize.OpenReader(bytes.NewReader(xlsx.Content))
	require.NoError(t, err)
	defer f.Close()
	revenue, err := f.GetCellValue(sheetName, "B9")
	require.NoError(t, err)
	assert.Equal(t, "17.50", revenue)
}

func TestServiceUnknownFormat(t *testing.T) {
	svc := NewService(&stubProducts{}, &stubStock{})

	_, err := svc.Inventory(context.Background(), Format("csv"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
