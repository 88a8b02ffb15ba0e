package reports

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/documents/order"
	"stockroom/internal/domain/documents/sale"
)

// maxReportRows caps the product listing pulled into one report.
const maxReportRows = 10000

// ProductSource supplies products for the inventory report.
type ProductSource interface {
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error)
}

// StockSource supplies derived stock levels.
type StockSource interface {
	CurrentStockBatch(ctx context.Context, productIDs []id.ID) (map[id.ID]int64, error)
}

// Result is a rendered report ready for download.
type Result struct {
	Content  []byte
	MIME     string
	Filename string
}

// Service prepares report tables and renders them.
type Service struct {
	products ProductSource
	stock    StockSource

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a new reports service.
func NewService(products ProductSource, stock StockSource) *Service {
	return &Service{
		products: products,
		stock:    stock,
		now:      time.Now,
	}
}

// Inventory renders the full inventory report in the requested format.
// An empty catalog still renders headers and a zero-totals block.
func (s *Service) Inventory(ctx context.Context, format Format) (*Result, error) {
	listing, err := s.products.List(ctx, domain.ListFilter{Limit: maxReportRows, OrderBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	ids := make([]id.ID, 0, len(listing.Items))
	for _, p := range listing.Items {
		ids = append(ids, p.ID)
	}
	levels, err := s.stock.CurrentStockBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}

	rows := make([]InventoryRow, 0, len(listing.Items))
	for _, p := range listing.Items {
		rows = append(rows, InventoryRow{
			SKU:       p.SKU,
			Name:      p.Name,
			Quantity:  levels[p.ID],
			UnitCost:  p.UnitCost,
			UnitPrice: p.UnitPrice,
		})
	}

	table := BuildInventoryTable(rows, s.now())
	return s.render(table, format, "inventory-report")
}

// Order renders a single order document.
func (s *Service) Order(ctx context.Context, doc *order.Order, format Format) (*Result, error) {
	rows := make([]DocumentRow, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		rows = append(rows, DocumentRow{SKU: l.SKU, Name: l.Name, Qty: l.Qty, Price: l.Price})
	}
	table := BuildDocumentTable(fmt.Sprintf("Order %s", doc.Number), rows, s.now())
	return s.render(table, format, fmt.Sprintf("order-%s", doc.Number))
}

// Sale renders a single sale document.
func (s *Service) Sale(ctx context.Context, doc *sale.Sale, format Format) (*Result, error) {
	rows := make([]DocumentRow, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		rows = append(rows, DocumentRow{SKU: l.SKU, Name: l.Name, Qty: l.Qty, Price: l.Price})
	}
	table := BuildDocumentTable(fmt.Sprintf("Sale %s", doc.Number), rows, s.now())
	return s.render(table, format, fmt.Sprintf("sale-%s", doc.Number))
}

func (s *Service) render(table Table, format Format, stem string) (*Result, error) {
	date := s.now().Format("2006-01-02")

	switch format {
	case FormatPDF:
		content, err := RenderPDF(table)
		if err != nil {
			return nil, err
		}
		return &Result{
			Content:  content,
			MIME:     MIMEPDF,
			Filename: fmt.Sprintf("%s-%s.pdf", stem, date),
		}, nil
	case FormatXLSX:
		content, err := RenderXLSX(table)
		if err != nil {
			return nil, err
		}
		return &Result{
			Content:  content,
			MIME:     MIMEXLSX,
			Filename: fmt.Sprintf("%s-%s.xlsx", stem, date),
		}, nil
	default:
		return nil, apperror.NewValidation("unknown report format").
			WithDetail("field", "format").
			WithDetail("value", string(format))
	}
}
