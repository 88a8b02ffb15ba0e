package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/documents/order"
	"stockroom/internal/domain/documents/sale"
	"stockroom/internal/domain/reports"
)

// ReportHandler serves downloadable PDF and XLSX reports.
type ReportHandler struct {
	*BaseHandler
	reports *reports.Service
	orders  *order.Service
	sales   *sale.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(
	base *BaseHandler,
	reportsSvc *reports.Service,
	orders *order.Service,
	sales *sale.Service,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler: base,
		reports:     reportsSvc,
		orders:      orders,
		sales:       sales,
	}
}

// Inventory handles GET /reports/inventory?format=pdf|xlsx.
func (h *ReportHandler) Inventory(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.reports.Inventory(ctx, reports.Format(c.DefaultQuery("format", "pdf")))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.send(c, result)
}

// Order handles GET /reports/orders/:id?format=pdf|xlsx.
func (h *ReportHandler) Order(c *gin.Context) {
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

	result, err := h.reports.Order(ctx, doc, reports.Format(c.DefaultQuery("format", "pdf")))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.send(c, result)
}

// Sale handles GET /reports/sales/:id?format=pdf|xlsx.
func (h *ReportHandler) Sale(c *gin.Context) {
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

	result, err := h.reports.Sale(ctx, doc, reports.Format(c.DefaultQuery("format", "pdf")))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.send(c, result)
}

func (h *ReportHandler) send(c *gin.Context, result *reports.Result) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.MIME, result.Content)
}
