package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/documents/sale"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves the sale document. Completing a sale writes OUT
// movements to the stock register inside the same transaction.
type SaleHandler struct {
	*BaseHandler
	sales    *sale.Service
	activity *activity.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, sales *sale.Service, activitySvc *activity.Service) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		sales:       sales,
		activity:    activitySvc,
	}
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := sale.ListFilter{ListFilter: query.ToFilter()}
	if status := c.Query("status"); status != "" {
		s := entity.Status(status)
		if !entity.ValidStatus(s) {
			h.Error(c, apperror.NewValidation("unknown status").WithDetail("value", status))
			return
		}
		filter.Status = &s
	}
	if from, ok := parseDateQuery(c, "dateFrom"); ok {
		filter.DateFrom = from
	}
	if to, ok := parseDateQuery(c, "dateTo"); ok {
		filter.DateTo = to
	}

	result, err := h.sales.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromSale(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.sales.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSale(doc))
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	doc.CreatedBy = h.GetLogin(c)

	if err := h.sales.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "sale.create", map[string]any{
		"saleId": doc.ID.String(),
		"number": doc.Number,
	})

	c.JSON(http.StatusCreated, dto.FromSale(doc))
}

// Update handles PUT /sales/:id.
func (h *SaleHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.sales.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(doc)
	doc.UpdatedBy = h.GetLogin(c)

	if err := h.sales.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "sale.update", map[string]any{
		"saleId": doc.ID.String(),
		"number": doc.Number,
	})

	c.JSON(http.StatusOK, dto.FromSale(doc))
}

// Delete handles DELETE /sales/:id.
func (h *SaleHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.sales.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "sale.delete", map[string]any{
		"saleId": docID.String(),
	})

	h.NoContent(c)
}

// SetStatus handles POST /sales/:id/status.
// Moving a sale to completed checks availability and writes stock
// movements atomically.
func (h *SaleHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.sales.SetStatus(ctx, docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "sale.status", map[string]any{
		"saleId": docID.String(),
		"status": string(req.Status),
	})

	c.JSON(http.StatusOK, dto.FromSale(doc))
}
