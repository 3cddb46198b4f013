package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/shopadmin/backend/internal/application/catalog"
)

// ProductHandler exposes the catalog management operations over HTTP
type ProductHandler struct {
	BaseHandler
	service *appcatalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *appcatalog.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.CreateProduct)
	products.GET("", h.ListProducts)
	products.GET("/:productId", h.GetProduct)
	products.DELETE("/:productId", h.DeleteProduct)
	products.POST("/:productId/variants", h.AddVariant)
	products.PUT("/:productId/variants/:variantId/label", h.RenameVariantLabel)
	products.PUT("/:productId/variants/:variantId/price", h.UpdateVariantPrice)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetProduct handles GET /products/:productId
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filter appcatalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	resp, err := h.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.PageSize)
}

// AddVariant handles POST /products/:productId/variants
func (h *ProductHandler) AddVariant(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req appcatalog.AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.AddVariant(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RenameVariantLabel handles PUT /products/:productId/variants/:variantId/label
func (h *ProductHandler) RenameVariantLabel(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	variantID := c.Param("variantId")

	var req appcatalog.RenameVariantLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.RenameVariantLabel(c.Request.Context(), productID, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateVariantPrice handles PUT /products/:productId/variants/:variantId/price
func (h *ProductHandler) UpdateVariantPrice(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	variantID := c.Param("variantId")

	var req appcatalog.UpdateVariantPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.UpdateVariantPrice(c.Request.Context(), productID, variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteProduct handles DELETE /products/:productId
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
