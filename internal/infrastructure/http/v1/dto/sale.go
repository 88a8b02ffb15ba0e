package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/entity"
	"stockroom/internal/domain/documents/sale"
)

// --- Request DTOs ---

// CreateSaleRequest is the request body for creating a sale.
type CreateSaleRequest struct {
	Customer string        `json:"customer" binding:"required"`
	Contact  string        `json:"contact"`
	Comment  string        `json:"comment"`
	Date     *time.Time    `json:"date"`
	Lines    []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSaleRequest) ToEntity() *sale.Sale {
	doc := sale.New(r.Customer, r.Contact)
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}
	for _, line := range r.Lines {
		doc.AddLine(line.SKU, line.Name, line.Qty, line.Price)
	}
	return doc
}

// UpdateSaleRequest is the request body for updating a sale.
type UpdateSaleRequest struct {
	Customer string        `json:"customer" binding:"required"`
	Contact  string        `json:"contact"`
	Comment  string        `json:"comment"`
	Date     *time.Time    `json:"date"`
	Lines    []LineRequest `json:"lines" binding:"required,min=1,dive"`
	Version  int           `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSaleRequest) ApplyTo(doc *sale.Sale) {
	doc.Customer = r.Customer
	doc.Contact = r.Contact
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}
	lines := make([]sale.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, sale.Line{
			SKU:   line.SKU,
			Name:  line.Name,
			Qty:   line.Qty,
			Price: line.Price,
		})
	}
	doc.SetLines(lines)
	doc.Version = r.Version
}

// --- Response DTOs ---

// SaleResponse is the response body for a sale.
type SaleResponse struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Date      time.Time       `json:"date"`
	Status    entity.Status   `json:"status"`
	Customer  string          `json:"customer"`
	Contact   string          `json:"contact,omitempty"`
	Comment   string          `json:"comment,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	Lines     []LineResponse  `json:"lines,omitempty"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	CreatedBy string          `json:"createdBy,omitempty"`
}

// FromSale creates SaleResponse from domain entity.
func FromSale(doc *sale.Sale) SaleResponse {
	lines := make([]LineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, LineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			SKU:       line.SKU,
			Name:      line.Name,
			Qty:       line.Qty,
			Price:     line.Price,
			LineTotal: line.LineTotal,
		})
	}
	return SaleResponse{
		ID:        doc.ID.String(),
		Number:    doc.Number,
		Date:      doc.Date,
		Status:    doc.Status,
		Customer:  doc.Customer,
		Contact:   doc.Contact,
		Comment:   doc.Comment,
		Subtotal:  doc.Subtotal,
		Total:     doc.Total,
		Lines:     lines,
		Version:   doc.Version,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		CreatedBy: doc.CreatedBy,
	}
}
