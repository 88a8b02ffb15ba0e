package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// RenderXLSX lays the table out as a flat spreadsheet: title and date
// block, one header row, one row per record, then the totals rows.
// Numeric cells keep their fixed two-decimal text form so the export
// reconciles with the PDF cell for cell.
func RenderXLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	setCell := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, cell, value)
	}

	// Title block.
	if err := setCell(1, 1, t.Title); err != nil {
		return nil, err
	}
	if err := setCell(1, 2, t.GeneratedAt.Format("2006-01-02 15:04")); err != nil {
		return nil, err
	}

	// Header row.
	headerRow := 4
	for i, col := range t.Columns {
		if err := setCell(i+1, headerRow, col.Title); err != nil {
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, name, name, col.Width/6); err != nil {
			return nil, err
		}
	}

	// Data rows.
	for r, row := range t.Rows {
		for c := range t.Columns {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if err := setCell(c+1, headerRow+1+r, cell); err != nil {
				return nil, err
			}
		}
	}

	// Totals rows.
	totalsStart := headerRow + len(t.Rows) + 2
	for i, total := range t.Totals {
		if err := setCell(1, totalsStart+i, total.Label); err != nil {
			return nil, err
		}
		if err := setCell(2, totalsStart+i, total.Value); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
