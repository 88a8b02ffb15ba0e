package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDF layout constants, in points.
const (
	pdfMarginLeft = 40.0
	pdfMarginTop  = 40.0
	pdfRowHeight  = 18.0
	// totals are never drawn above this y even when the page is empty
	pdfTotalsMinY = 120.0
)

// RenderPDF lays the table out as a paginated PDF.
//
// The column header repeats on every page and every page is stamped
// "Page i of N". Page count stamping uses the alias mechanism, so the
// layout is single-pass.
func RenderPDF(t Table) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginLeft)
	pdf.AliasNbPages("")

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 24, t.Title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 14, t.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
		pdf.Ln(6)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range t.Columns {
			align := "L"
			if col.Numeric {
				align = "R"
			}
			pdf.CellFormat(col.Width, pdfRowHeight, col.Title, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}

	pdf.SetHeaderFunc(drawHeader)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-30)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 12, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.SetAutoPageBreak(true, 60)
	pdf.AddPage()

	for _, row := range t.Rows {
		for i, col := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "L"
			if col.Numeric {
				align = "R"
			}
			pdf.CellFormat(col.Width, pdfRowHeight, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals block after the last row, pushed down on nearly-empty pages.
	if pdf.GetY() < pdfTotalsMinY {
		pdf.SetY(pdfTotalsMinY)
	}
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 10)
	for _, total := range t.Totals {
		pdf.CellFormat(200, pdfRowHeight, total.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(120, pdfRowHeight, total.Value, "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
