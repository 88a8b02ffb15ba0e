package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/catalogs/product"
	"stockroom/internal/domain/registers/stock"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog plus stock-derived quantity
// endpoints. CRUD is inherited from the generic catalog handler.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	stock    *stock.Service
	activity *activity.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(
	base *BaseHandler,
	products *product.Service,
	stockSvc *stock.Service,
	activitySvc *activity.Service,
) *ProductHandler {
	config := CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    products.CatalogService,
		EntityName: "product",
		MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(item *product.Product) any {
			return dto.FromProduct(item)
		},
	}

	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		stock:          stockSvc,
		activity:       activitySvc,
	}
}

// Create handles POST /products - create product.
func (h *ProductHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToEntity()

	if err := h.service.Create(ctx, item); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "product.create", map[string]any{
		"productId": item.ID.String(),
		"sku":       item.SKU,
		"name":      item.Name,
	})

	c.JSON(http.StatusCreated, dto.FromProduct(item))
}

// Update handles PUT /products/:id - update product.
func (h *ProductHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(item)

	if err := h.service.Update(ctx, item); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "product.update", map[string]any{
		"productId": item.ID.String(),
		"sku":       item.SKU,
		"name":      item.Name,
	})

	c.JSON(http.StatusOK, dto.FromProduct(item))
}

// Delete handles DELETE /products/:id - delete product.
func (h *ProductHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(ctx, productID); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "product.delete", map[string]any{
		"productId": productID.String(),
	})

	h.NoContent(c)
}

// Get handles GET /products/:id - product with current stock level.
func (h *ProductHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	item, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	qty, err := h.stock.CurrentStock(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProductWithQuantity(item, qty))
}

// GetQuantity handles GET /products/:id/quantity - derived stock level.
func (h *ProductHandler) GetQuantity(c *gin.Context) {
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

// SetQuantity handles PUT /products/:id/quantity - adjust stock to an
// absolute level. The difference is recorded as an adjustment movement.
func (h *ProductHandler) SetQuantity(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.AdjustQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	movement, err := h.stock.AdjustQuantity(ctx, productID, req.Quantity, h.GetLogin(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	// No movement means the target already matched the current level.
	if movement == nil {
		c.JSON(http.StatusOK, dto.StockLevelResponse{
			ProductID: productID.String(),
			Quantity:  req.Quantity,
		})
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "product.quantity.adjust", map[string]any{
		"productId": productID.String(),
		"quantity":  req.Quantity,
	})

	c.JSON(http.StatusOK, dto.StockLevelResponse{
		ProductID: productID.String(),
		Quantity:  req.Quantity,
	})
}
