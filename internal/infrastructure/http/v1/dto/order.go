package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/entity"
	"stockroom/internal/domain/documents/order"
)

// --- Request DTOs ---

// LineRequest is one document line in a create/update request.
type LineRequest struct {
	SKU   string          `json:"sku" binding:"required"`
	Name  string          `json:"name" binding:"required"`
	Qty   int64           `json:"qty" binding:"required,min=1"`
	Price decimal.Decimal `json:"price"`
}

// CreateOrderRequest is the request body for creating an order.
type CreateOrderRequest struct {
	Customer string        `json:"customer" binding:"required"`
	Contact  string        `json:"contact"`
	Comment  string        `json:"comment"`
	Date     *time.Time    `json:"date"`
	Lines    []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateOrderRequest) ToEntity() *order.Order {
	doc := order.New(r.Customer, r.Contact)
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}
	for _, line := range r.Lines {
		doc.AddLine(line.SKU, line.Name, line.Qty, line.Price)
	}
	return doc
}

// UpdateOrderRequest is the request body for updating an order.
type UpdateOrderRequest struct {
	Customer string        `json:"customer" binding:"required"`
	Contact  string        `json:"contact"`
	Comment  string        `json:"comment"`
	Date     *time.Time    `json:"date"`
	Lines    []LineRequest `json:"lines" binding:"required,min=1,dive"`
	Version  int           `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateOrderRequest) ApplyTo(doc *order.Order) {
	doc.Customer = r.Customer
	doc.Contact = r.Contact
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = *r.Date
	}
	lines := make([]order.Line, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, order.Line{
			SKU:   line.SKU,
			Name:  line.Name,
			Qty:   line.Qty,
			Price: line.Price,
		})
	}
	doc.SetLines(lines)
	doc.Version = r.Version
}

// SetStatusRequest moves a document to a new lifecycle status.
type SetStatusRequest struct {
	Status entity.Status `json:"status" binding:"required"`
}

// --- Response DTOs ---

// LineResponse is one document line.
type LineResponse struct {
	LineID    string          `json:"lineId"`
	LineNo    int             `json:"lineNo"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Qty       int64           `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderResponse is the response body for an order.
type OrderResponse struct {
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

// FromOrder creates OrderResponse from domain entity.
func FromOrder(doc *order.Order) OrderResponse {
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
	return OrderResponse{
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
