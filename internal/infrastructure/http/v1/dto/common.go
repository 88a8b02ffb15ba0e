// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// --- List query ---

// ListQuery contains common list parameters.
type ListQuery struct {
	Search  string `form:"search"`
	OrderBy string `form:"orderBy"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to a domain filter.
// Repositories apply their own default sort when OrderBy is empty.
func (q *ListQuery) ToFilter() domain.ListFilter {
	filter := domain.ListFilter{
		Search:  q.Search,
		OrderBy: q.OrderBy,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return filter
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
