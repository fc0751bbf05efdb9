package handler

import (
	"github.com/atelier/marketplace/internal/application/promotion"
	"github.com/gin-gonic/gin"
)

// CouponHandler manages coupons. The same handler serves professionals
// (their own coupons) and admins (platform coupons); the scope decides which.
type CouponHandler struct {
	BaseHandler
	coupons *promotion.CouponService
	scope   func(c *gin.Context) promotion.Scope
}

// NewVendorCouponHandler manages the calling professional's coupons
func NewVendorCouponHandler(coupons *promotion.CouponService) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
		scope:   func(c *gin.Context) promotion.Scope { return promotion.VendorScope(caller(c)) },
	}
}

// NewPlatformCouponHandler manages platform-wide coupons
func NewPlatformCouponHandler(coupons *promotion.CouponService) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
		scope:   func(*gin.Context) promotion.Scope { return promotion.PlatformScope() },
	}
}

// List godoc
// @Summary      List coupons
// @Description  List the caller's coupons under /pro, platform coupons under /admin
// @Tags         coupon-management
// @Produce      json
// @Param        search query string false "Code search"
// @Param        active query boolean false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]promotion.CouponResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/coupons [get]
// @Router       /admin/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	var filter promotion.CouponListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.coupons.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @Summary      Get coupon
// @Description  Get coupon
// @Tags         coupon-management
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/coupons/{id} [get]
// @Router       /admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	coupon, err := h.coupons.Get(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Create godoc
// @Summary      Create coupon
// @Description  Create coupon
// @Tags         coupon-management
// @Accept       json
// @Produce      json
// @Param        request body promotion.CouponRequest true "Coupon"
// @Success      201 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/coupons [post]
// @Router       /admin/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var req promotion.CouponRequest
	if !h.BindJSON(c, &req) {
		return
	}
	coupon, err := h.coupons.Create(c.Request.Context(), h.scope(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, coupon)
}

// Update godoc
// @Summary      Update coupon
// @Description  Update coupon
// @Tags         coupon-management
// @Accept       json
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Param        request body promotion.CouponRequest true "Coupon"
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/coupons/{id} [put]
// @Router       /admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req promotion.CouponRequest
	if !h.BindJSON(c, &req) {
		return
	}
	coupon, err := h.coupons.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Deactivate godoc
// @Summary      Deactivate coupon
// @Description  Deactivate coupon
// @Tags         coupon-management
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      200 {object} dto.Response{data=promotion.CouponResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/coupons/{id}/deactivate [post]
// @Router       /admin/coupons/{id}/deactivate [post]
func (h *CouponHandler) Deactivate(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	coupon, err := h.coupons.Deactivate(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, coupon)
}

// Delete godoc
// @Summary      Delete coupon
// @Description  Delete an unused coupon. Redeemed coupons must be deactivated instead.
// @Tags         coupon-management
// @Produce      json
// @Param        id path string true "Coupon ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/coupons/{id} [delete]
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.coupons.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
