package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/documents/order"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// OrderHandler serves the customer order document.
type OrderHandler struct {
	*BaseHandler
	orders   *order.Service
	activity *activity.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, orders *order.Service, activitySvc *activity.Service) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		orders:      orders,
		activity:    activitySvc,
	}
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter := order.ListFilter{ListFilter: query.ToFilter()}
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

	result, err := h.orders.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromOrder(doc)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.orders.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromOrder(doc))
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	doc.CreatedBy = h.GetLogin(c)

	if err := h.orders.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "order.create", map[string]any{
		"orderId": doc.ID.String(),
		"number":  doc.Number,
	})

	c.JSON(http.StatusCreated, dto.FromOrder(doc))
}

// Update handles PUT /orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.orders.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(doc)
	doc.UpdatedBy = h.GetLogin(c)

	if err := h.orders.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "order.update", map[string]any{
		"orderId": doc.ID.String(),
		"number":  doc.Number,
	})

	c.JSON(http.StatusOK, dto.FromOrder(doc))
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.orders.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "order.delete", map[string]any{
		"orderId": docID.String(),
	})

	h.NoContent(c)
}

// SetStatus handles POST /orders/:id/status.
func (h *OrderHandler) SetStatus(c *gin.Context) {
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

	doc, err := h.orders.SetStatus(ctx, docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "order.status", map[string]any{
		"orderId": docID.String(),
		"status":  string(req.Status),
	})

	c.JSON(http.StatusOK, dto.FromOrder(doc))
}

// parseDateQuery parses a YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, false
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil, false
	}
	return &t, true
}
