package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Category    string          `json:"category"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Description *string         `json:"description"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	item := product.New(r.Code, r.Name, r.SKU)
	item.Category = r.Category
	item.UnitCost = r.UnitCost
	item.UnitPrice = r.UnitPrice
	item.Description = r.Description
	return item
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Category    string          `json:"category"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Description *string         `json:"description"`
	Version     int             `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateProductRequest) ApplyTo(item *product.Product) {
	item.Code = r.Code
	item.Name = r.Name
	item.SKU = r.SKU
	item.Category = r.Category
	item.UnitCost = r.UnitCost
	item.UnitPrice = r.UnitPrice
	item.Description = r.Description
	item.Version = r.Version
}

// AdjustQuantityRequest sets the absolute on-hand quantity for a product.
// The difference from the current level is written to the stock register.
type AdjustQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"min=0"`
}

// --- Response DTOs ---

// ProductResponse is the response body for a product.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category,omitempty"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Description *string         `json:"description,omitempty"`
	Quantity    *int64          `json:"quantity,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// FromProduct creates ProductResponse from domain entity.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Code:        p.Code,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		UnitCost:    p.UnitCost,
		UnitPrice:   p.UnitPrice,
		Description: p.Description,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromProductWithQuantity creates ProductResponse including the current
// stock level derived from the register.
func FromProductWithQuantity(p *product.Product, qty int64) ProductResponse {
	resp := FromProduct(p)
	resp.Quantity = &qty
	return resp
}
