package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/registers/stock"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the stock movement register.
type StockHandler struct {
	*BaseHandler
	stock    *stock.Service
	products *product.Service
	activity *activity.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, stockSvc *stock.Service, products *product.Service, activitySvc *activity.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		stock:       stockSvc,
		products:    products,
		activity:    activitySvc,
	}
}

// RecordMovement handles POST /stock/movements - manual stock movement.
func (h *StockHandler) RecordMovement(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	productID, err := id.Parse(req.ProductID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid product id format"))
		return
	}

	movement, err := h.stock.RecordMovement(ctx, productID, req.RecordType, req.Quantity, h.GetLogin(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "stock.movement.record", map[string]any{
		"productId":  req.ProductID,
		"recordType": string(req.RecordType),
		"quantity":   req.Quantity,
	})

	c.JSON(http.StatusCreated, dto.FromMovement(*movement))
}

// List handles GET /stock/movements - movements across all products.
func (h *StockHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.MovementHistoryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.stock.List(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMovements(items))
}

// History handles GET /stock/products/:id/movements - per-product history.
func (h *StockHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var query dto.MovementHistoryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.stock.History(ctx, productID, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMovements(items))
}

// Level handles GET /stock/products/:id - current stock level.
func (h *StockHandler) Level(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	qty, err := h.stock.CurrentStock(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StockLevelResponse{
		ProductID: productID.String(),
		Quantity:  qty,
	})
}

// LowStock handles GET /stock/low - products at or below a stock threshold.
func (h *StockHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	threshold := int64(h.ParseIntQuery(c, "threshold", 0))
	if threshold < 0 {
		h.Error(c, apperror.NewValidation("threshold must not be negative"))
		return
	}

	const pageSize = 500

	low := make([]dto.ProductResponse, 0)
	for offset := 0; ; offset += pageSize {
		page, err := h.products.List(ctx, domain.ListFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			h.Error(c, err)
			return
		}
		if len(page.Items) == 0 {
			break
		}

		ids := make([]id.ID, len(page.Items))
		for i, p := range page.Items {
			ids[i] = p.ID
		}

		levels, err := h.stock.CurrentStockBatch(ctx, ids)
		if err != nil {
			h.Error(c, err)
			return
		}

		for _, p := range page.Items {
			if qty := levels[p.ID]; qty <= threshold {
				low = append(low, dto.FromProductWithQuantity(p, qty))
			}
		}

		if len(page.Items) < pageSize {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": low, "threshold": threshold})
}
