package dto

import (
	"time"

	"stockroom/internal/core/entity"
	"stockroom/internal/domain/registers/stock"
)

// --- Request DTOs ---

// RecordMovementRequest records one manual stock movement.
type RecordMovementRequest struct {
	ProductID  string            `json:"productId" binding:"required,uuid"`
	RecordType entity.RecordType `json:"recordType" binding:"required"`
	Quantity   int64             `json:"quantity" binding:"required,min=1"`
}

// MovementHistoryQuery filters movement history.
type MovementHistoryQuery struct {
	RecordType string     `form:"recordType"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset     int        `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to a movement filter.
func (q *MovementHistoryQuery) ToFilter() stock.MovementFilter {
	filter := stock.MovementFilter{
		FromDate: q.From,
		ToDate:   q.To,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if q.RecordType != "" {
		rt := entity.RecordType(q.RecordType)
		filter.RecordType = &rt
	}
	return filter
}

// --- Response DTOs ---

// StockLevelResponse is the current on-hand quantity for a product.
type StockLevelResponse struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// MovementResponse is one stock register line.
type MovementResponse struct {
	LineID     string            `json:"lineId"`
	ProductID  string            `json:"productId"`
	RecordType entity.RecordType `json:"recordType"`
	Quantity   int64             `json:"quantity"`
	RecorderID *string           `json:"recorderId,omitempty"`
	Recorder   string            `json:"recorderType,omitempty"`
	User       string            `json:"user,omitempty"`
	Period     time.Time         `json:"period"`
}

// FromMovement creates MovementResponse from a register line.
func FromMovement(m stock.Movement) MovementResponse {
	resp := MovementResponse{
		LineID:     m.LineID.String(),
		ProductID:  m.ProductID.String(),
		RecordType: m.RecordType,
		Quantity:   m.Quantity,
		Recorder:   m.RecorderType,
		User:       m.User,
		Period:     m.Period,
	}
	if m.RecorderID != nil {
		s := m.RecorderID.String()
		resp.RecorderID = &s
	}
	return resp
}

// FromMovements converts a slice of register lines.
func FromMovements(items []stock.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromMovement(m))
	}
	return out
}
