package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinv "github.com/shopadmin/backend/internal/application/inventory"
)

// InventoryHandler exposes the inventory operations over HTTP
type InventoryHandler struct {
	BaseHandler
	service             *appinv.InventoryService
	expiration          *appinv.ReservationExpirationService
	reservationsEnabled bool
}

// NewInventoryHandler creates a new InventoryHandler. The reservation
// endpoints are only registered when reservationsEnabled is set.
func NewInventoryHandler(service *appinv.InventoryService, expiration *appinv.ReservationExpirationService, reservationsEnabled bool) *InventoryHandler {
	return &InventoryHandler{
		service:             service,
		expiration:          expiration,
		reservationsEnabled: reservationsEnabled,
	}
}

// RegisterRoutes registers the inventory routes on the given group
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	inventory.GET("/:productId/availability", h.CheckAvailability)
	inventory.GET("/:productId/info", h.GetInventoryInfo)
	inventory.PUT("/:productId/stock", h.AdjustInventory)

	if h.reservationsEnabled {
		reservations := inventory.Group("/reservations")
		reservations.POST("", h.ReserveInventory)
		reservations.POST("/:id/commit", h.CommitReservation)
		reservations.POST("/:id/cancel", h.CancelReservation)
		reservations.POST("/sweep", h.SweepExpiredReservations)
	}
}

// variantQuery carries the variant address from query parameters
type variantQuery struct {
	VariantID string `form:"variant_id"`
	Label     string `form:"label"`
}

// CheckAvailability handles GET /inventory/:productId/availability
func (h *InventoryHandler) CheckAvailability(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var query struct {
		variantQuery
		Quantity int64 `form:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.CheckAvailability(c.Request.Context(), appinv.CheckAvailabilityRequest{
		ProductID: productID,
		VariantID: query.VariantID,
		Label:     query.Label,
		Quantity:  query.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetInventoryInfo handles GET /inventory/:productId/info
func (h *InventoryHandler) GetInventoryInfo(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var query variantQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.GetProductInventoryInfo(c.Request.Context(), appinv.InventoryInfoRequest{
		ProductID: productID,
		VariantID: query.VariantID,
		Label:     query.Label,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReserveInventory handles POST /inventory/reservations
func (h *InventoryHandler) ReserveInventory(c *gin.Context) {
	var req appinv.ReserveInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.ReserveInventory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !resp.Success {
		// Expected denial, not an error: callers branch on the payload's
		// success flag and reason
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// CommitReservation handles POST /inventory/reservations/:id/commit
func (h *InventoryHandler) CommitReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}

	resp, err := h.service.CommitReservation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelReservation handles POST /inventory/reservations/:id/cancel
func (h *InventoryHandler) CancelReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reservation ID")
		return
	}

	resp, err := h.service.CancelReservation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AdjustInventory handles PUT /inventory/:productId/stock
func (h *InventoryHandler) AdjustInventory(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req appinv.AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.ProductID = productID

	resp, err := h.service.AdjustInventory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SweepExpiredReservations handles POST /inventory/reservations/sweep
func (h *InventoryHandler) SweepExpiredReservations(c *gin.Context) {
	stats, err := h.expiration.ReleaseExpiredReservations(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
