// Package order provides the customer Order document.
package order

import (
	"context"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
)

// Order represents a customer order document.
type Order struct {
	entity.Document

	// Customer is the customer display name
	Customer string `db:"customer" json:"customer"`

	// Contact is a free-form contact (phone, email)
	Contact string `db:"contact" json:"contact,omitempty"`

	// Totals (calculated from lines)
	Subtotal decimal.Decimal `db:"subtotal" json:"subtotal"`
	Total    decimal.Decimal `db:"total" json:"total"`

	// Table part: ordered lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one order line.
// SKU is a weak reference to the product catalog, captured at order time.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	SKU       string          `db:"sku" json:"sku"`
	Name      string          `db:"name" json:"name"`
	Qty       int64           `db:"qty" json:"qty"`
	Price     decimal.Decimal `db:"price" json:"price"`
	LineTotal decimal.Decimal `db:"line_total" json:"lineTotal"`
}

// New creates a new order document in draft status.
func New(customer, contact string) *Order {
	return &Order{
		Document: entity.NewDocument(),
		Customer: customer,
		Contact:  contact,
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
		Lines:    make([]Line, 0),
	}
}

// AddLine adds a line to the order and recalculates totals.
func (o *Order) AddLine(sku, name string, qty int64, price decimal.Decimal) {
	line := Line{
		LineID:    id.New(),
		LineNo:    len(o.Lines) + 1,
		SKU:       sku,
		Name:      name,
		Qty:       qty,
		Price:     price,
		LineTotal: price.Mul(decimal.NewFromInt(qty)),
	}
	o.Lines = append(o.Lines, line)
	o.RecalculateTotals()
}

// SetLines replaces all lines and recalculates totals.
func (o *Order) SetLines(lines []Line) {
	o.Lines = make([]Line, 0, len(lines))
	for _, l := range lines {
		o.AddLine(l.SKU, l.Name, l.Qty, l.Price)
	}
}

// RecalculateTotals recomputes subtotal and total from lines.
func (o *Order) RecalculateTotals() {
	subtotal := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].LineTotal = o.Lines[i].Price.Mul(decimal.NewFromInt(o.Lines[i].Qty))
		subtotal = subtotal.Add(o.Lines[i].LineTotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal
}

// Validate implements entity.Validatable.
// Missing required fields are reported together in one error.
func (o *Order) Validate(ctx context.Context) error {
	var missing []string
	if o.Date.IsZero() {
		missing = append(missing, "date")
	}
	if o.Customer == "" {
		missing = append(missing, "customer")
	}
	if len(missing) > 0 {
		return apperror.NewMissingFields(missing...)
	}

	if !entity.ValidStatus(o.Status) {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("value", string(o.Status))
	}

	for i, line := range o.Lines {
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
