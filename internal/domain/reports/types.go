// Package reports builds tabular reports and renders them as PDF or XLSX.
// Both renderers consume the same prepared table, so their totals always
// reconcile to the cent.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/types"
)

// Format selects the output representation.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// MIME types for report downloads.
const (
	MIMEPDF  = "application/pdf"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// InventoryRow is one product line in the inventory report.
type InventoryRow struct {
	SKU       string
	Name      string
	Quantity  int64
	UnitCost  decimal.Decimal
	UnitPrice decimal.Decimal
}

// LineValue is quantity times unit cost.
func (r InventoryRow) LineValue() decimal.Decimal {
	return r.UnitCost.Mul(decimal.NewFromInt(r.Quantity))
}

// LineRevenue is quantity times unit price.
func (r InventoryRow) LineRevenue() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity))
}

// DocumentRow is one line in an order or sale report.
type DocumentRow struct {
	SKU   string
	Name  string
	Qty   int64
	Price decimal.Decimal
}

// LineTotal is qty times price.
func (r DocumentRow) LineTotal() decimal.Decimal {
	return r.Price.Mul(decimal.NewFromInt(r.Qty))
}

// Column describes one table column.
type Column struct {
	Title string
	// Width in PDF points; XLSX derives its column width from this
	Width float64
	// Numeric columns are right-aligned
	Numeric bool
}

// TotalLine is one row of the totals block.
type TotalLine struct {
	Label string
	Value string
}

// Table is the layout-neutral prepared report. All numeric cells are
// already formatted as fixed two-decimal text; renderers only lay it out.
type Table struct {
	Title       string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]string
	Totals      []TotalLine
}

// BuildInventoryTable prepares the inventory report table.
// Intermediate arithmetic stays in full decimal precision, rounding
// happens only when cells are formatted.
func BuildInventoryTable(rows []InventoryRow, at time.Time) Table {
	t := Table{
		Title:       "Inventory Report",
		GeneratedAt: at,
		Columns: []Column{
			{Title: "SKU", Width: 80},
			{Title: "Name", Width: 180},
			{Title: "Qty", Width: 50, Numeric: true},
			{Title: "Unit Cost", Width: 70, Numeric: true},
			{Title: "Unit Price", Width: 70, Numeric: true},
			{Title: "Line Value", Width: 80, Numeric: true},
		},
	}

	var units int64
	costValue := decimal.Zero
	revenueValue := decimal.Zero

	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.SKU,
			r.Name,
			formatInt(r.Quantity),
			types.FormatAmount(r.UnitCost),
			types.FormatAmount(r.UnitPrice),
			types.FormatAmount(r.LineValue()),
		})
		units += r.Quantity
		costValue = costValue.Add(r.LineValue())
		revenueValue = revenueValue.Add(r.LineRevenue())
	}

	t.Totals = []TotalLine{
		{Label: "Total Units", Value: formatInt(units)},
		{Label: "Total Cost Value", Value: types.FormatAmount(costValue)},
		{Label: "Total Revenue", Value: types.FormatAmount(revenueValue)},
	}
	return t
}

// BuildDocumentTable prepares an order or sale report table.
func BuildDocumentTable(title string, rows []DocumentRow, at time.Time) Table {
	t := Table{
		Title:       title,
		GeneratedAt: at,
		Columns: []Column{
			{Title: "SKU", Width: 90},
			{Title: "Name", Width: 200},
			{Title: "Qty", Width: 60, Numeric: true},
			{Title: "Price", Width: 80, Numeric: true},
			{Title: "Line Total", Width: 100, Numeric: true},
		},
	}

	var units int64
	total := decimal.Zero

	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.SKU,
			r.Name,
			formatInt(r.Qty),
			types.FormatAmount(r.Price),
			types.FormatAmount(r.LineTotal()),
		})
		units += r.Qty
		total = total.Add(r.LineTotal())
	}

	t.Totals = []TotalLine{
		{Label: "Total Units", Value: formatInt(units)},
		{Label: "Grand Total", Value: types.FormatAmount(total)},
	}
	return t
}

func formatInt(v int64) string {
	return decimal.NewFromInt(v).String()
}
