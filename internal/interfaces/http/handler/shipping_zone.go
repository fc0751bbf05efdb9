package handler

import (
	"github.com/atelier/marketplace/internal/application/ordering"
	"github.com/gin-gonic/gin"
)

// ShippingZoneHandler serves admin CRUD over shipping zones
type ShippingZoneHandler struct {
	BaseHandler
	zones *ordering.ShippingZoneService
}

// NewShippingZoneHandler creates a new shipping zone handler
func NewShippingZoneHandler(zones *ordering.ShippingZoneService) *ShippingZoneHandler {
	return &ShippingZoneHandler{zones: zones}
}

// List godoc
// @Summary      List shipping zones
// @Description  List shipping zones
// @Tags         admin-shipping-zones
// @Produce      json
// @Success      200 {object} dto.Response{data=[]ordering.ShippingZoneResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipping-zones [get]
func (h *ShippingZoneHandler) List(c *gin.Context) {
	zones, err := h.zones.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, zones)
}

// Get godoc
// @Summary      Get shipping zone
// @Description  Get shipping zone
// @Tags         admin-shipping-zones
// @Produce      json
// @Param        id path string true "Shipping zone ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.ShippingZoneResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipping-zones/{id} [get]
func (h *ShippingZoneHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	zone, err := h.zones.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, zone)
}

// Create godoc
// @Summary      Create shipping zone
// @Description  Create shipping zone
// @Tags         admin-shipping-zones
// @Accept       json
// @Produce      json
// @Param        request body ordering.ShippingZoneRequest true "Shipping zone"
// @Success      201 {object} dto.Response{data=ordering.ShippingZoneResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipping-zones [post]
func (h *ShippingZoneHandler) Create(c *gin.Context) {
	var req ordering.ShippingZoneRequest
	if !h.BindJSON(c, &req) {
		return
	}
	zone, err := h.zones.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, zone)
}

// Update godoc
// @Summary      Update shipping zone
// @Description  Update shipping zone
// @Tags         admin-shipping-zones
// @Accept       json
// @Produce      json
// @Param        id path string true "Shipping zone ID" format(uuid)
// @Param        request body ordering.ShippingZoneRequest true "Shipping zone"
// @Success      200 {object} dto.Response{data=ordering.ShippingZoneResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipping-zones/{id} [put]
func (h *ShippingZoneHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req ordering.ShippingZoneRequest
	if !h.BindJSON(c, &req) {
		return
	}
	zone, err := h.zones.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, zone)
}

// Delete godoc
// @Summary      Delete shipping zone
// @Description  Delete shipping zone
// @Tags         admin-shipping-zones
// @Produce      json
// @Param        id path string true "Shipping zone ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipping-zones/{id} [delete]
func (h *ShippingZoneHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.zones.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
