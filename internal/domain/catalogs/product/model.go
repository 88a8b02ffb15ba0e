// Package product provides the Product catalog.
// Products are the inventory items tracked by the stock register.
package product

import (
	"context"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
)

// Product represents an inventory item.
type Product struct {
	entity.Catalog

	// SKU is the human-assigned unique product code
	SKU string `db:"sku" json:"sku"`

	// Category groups products for reporting
	Category string `db:"category" json:"category,omitempty"`

	// UnitCost is the acquisition cost per unit
	UnitCost decimal.Decimal `db:"unit_cost" json:"unitCost"`

	// UnitPrice is the selling price per unit
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new Product with required fields.
func New(code, name, sku string) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(code, name),
		SKU:       sku,
		UnitCost:  decimal.Zero,
		UnitPrice: decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
// Missing required fields are reported together in one error.
func (p *Product) Validate(ctx context.Context) error {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.SKU == "" {
		missing = append(missing, "sku")
	}
	if len(missing) > 0 {
		return apperror.NewMissingFields(missing...)
	}

	if p.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}

	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	return nil
}

// Margin returns the per-unit margin.
func (p *Product) Margin() decimal.Decimal {
	return p.UnitPrice.Sub(p.UnitCost)
}
