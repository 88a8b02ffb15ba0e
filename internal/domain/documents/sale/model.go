// Package sale provides the Sale document.
// Completing a sale writes OUT movements to the stock register for every
// line whose SKU resolves to a catalog product.
package sale

import (
	"context"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
)

// Sale represents a sale document.
type Sale struct {
	entity.Document

	// Customer is the customer display name
	Customer string `db:"customer" json:"customer"`

	// Contact is a free-form contact (phone, email)
	Contact string `db:"contact" json:"contact,omitempty"`

	// Totals (calculated from lines)
	Subtotal decimal.Decimal `db:"subtotal" json:"subtotal"`
	Total    decimal.Decimal `db:"total" json:"total"`

	// Table part: sold lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one sale line.
// SKU is a weak reference to the product catalog, captured at sale time.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	SKU       string          `db:"sku" json:"sku"`
	Name      string          `db:"name" json:"name"`
	Qty       int64           `db:"qty" json:"qty"`
	Price     decimal.Decimal `db:"price" json:"price"`
	LineTotal decimal.Decimal `db:"line_total" json:"lineTotal"`
}

// New creates a new sale document in draft status.
func New(customer, contact string) *Sale {
	return &Sale{
		Document: entity.NewDocument(),
		Customer: customer,
		Contact:  contact,
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
		Lines:    make([]Line, 0),
	}
}

// AddLine adds a line to the sale and recalculates totals.
func (s *Sale) AddLine(sku, name string, qty int64, price decimal.Decimal) {
	line := Line{
		LineID:    id.New(),
		LineNo:    len(s.Lines) + 1,
		SKU:       sku,
		Name:      name,
		Qty:       qty,
		Price:     price,
		LineTotal: price.Mul(decimal.NewFromInt(qty)),
	}
	s.Lines = append(s.Lines, line)
	s.RecalculateTotals()
}

// SetLines replaces all lines and recalculates totals.
func (s *Sale) SetLines(lines []Line) {
	s.Lines = make([]Line, 0, len(lines))
	for _, l := range lines {
		s.AddLine(l.SKU, l.Name, l.Qty, l.Price)
	}
}

// RecalculateTotals recomputes subtotal and total from lines.
func (s *Sale) RecalculateTotals() {
	subtotal := decimal.Zero
	for i := range s.Lines {
		s.Lines[i].LineTotal = s.Lines[i].Price.Mul(decimal.NewFromInt(s.Lines[i].Qty))
		subtotal = subtotal.Add(s.Lines[i].LineTotal)
	}
	s.Subtotal = subtotal
	s.Total = subtotal
}

// Validate implements entity.Validatable.
// Missing required fields are reported together in one error.
func (s *Sale) Validate(ctx context.Context) error {
	var missing []string
	if s.Date.IsZero() {
		missing = append(missing, "date")
	}
	if s.Customer == "" {
		missing = append(missing, "customer")
	}
	if len(missing) > 0 {
		return apperror.NewMissingFields(missing...)
	}

	if !entity.ValidStatus(s.Status) {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(s.Status))
	}

	for i, line := range s.Lines {
		if line.SKU == "" {
			return apperror.NewValidation("sku is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Qty <= 0 {
			return apperror.NewValidation("qty must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Price.IsNegative() {
			return apperror.NewValidation("price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
