package handler

import (
	"time"

	"github.com/atelier/marketplace/internal/application/analytics"
	"github.com/atelier/marketplace/internal/application/escrow"
	"github.com/gin-gonic/gin"
)

// FinanceHandler serves vendor escrows and analytics plus the admin
// release trigger and platform overview
type FinanceHandler struct {
	BaseHandler
	escrows   *escrow.Service
	analytics *analytics.Service
	now       func() time.Time
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(escrows *escrow.Service, analyticsService *analytics.Service) *FinanceHandler {
	return &FinanceHandler{escrows: escrows, analytics: analyticsService, now: time.Now}
}

// ListEscrows godoc
// @Summary      List my escrows
// @Description  List my escrows
// @Tags         vendor-finance
// @Produce      json
// @Param        status query string false "Escrow status" Enums(held, released, refunded, disputed)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]escrow.EscrowResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/escrows [get]
func (h *FinanceHandler) ListEscrows(c *gin.Context) {
	var filter escrow.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.OrderID, ok = h.QueryUUID(c, "order_id"); !ok {
		return
	}
	page, err := h.escrows.ListMine(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Balance godoc
// @Summary      Get escrow balance
// @Description  Escrow totals of the caller by status, plus commission fees
// @Tags         vendor-finance
// @Produce      json
// @Success      200 {object} dto.Response{data=github.com/atelier/marketplace/internal/domain/escrow.Balance}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/escrows/balance [get]
func (h *FinanceHandler) Balance(c *gin.Context) {
	balance, err := h.escrows.Balance(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// ReleaseDue godoc
// @Summary      Release due escrows
// @Description  Run the escrow release sweep now. The scheduled job runs the same sweep.
// @Tags         admin-finance
// @Produce      json
// @Success      200 {object} dto.Response{data=escrow.ReleaseResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/escrows/release-due [post]
func (h *FinanceHandler) ReleaseDue(c *gin.Context) {
	result, err := h.escrows.ReleaseDue(c.Request.Context(), h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// VendorDashboard godoc
// @Summary      Vendor analytics
// @Description  Sales figures and top products of the caller over a date range
// @Tags         vendor-finance
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)" format(date)
// @Param        to query string false "End date (YYYY-MM-DD)" format(date)
// @Success      200 {object} dto.Response{data=github.com/atelier/marketplace/internal/domain/analytics.VendorDashboard}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/analytics [get]
func (h *FinanceHandler) VendorDashboard(c *gin.Context) {
	var req analytics.RangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	dashboard, err := h.analytics.VendorDashboard(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// AdminOverview godoc
// @Summary      Platform analytics
// @Description  Platform totals and top vendors over a date range
// @Tags         admin-analytics
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)" format(date)
// @Param        to query string false "End date (YYYY-MM-DD)" format(date)
// @Success      200 {object} dto.Response{data=github.com/atelier/marketplace/internal/domain/analytics.AdminOverview}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/analytics/overview [get]
func (h *FinanceHandler) AdminOverview(c *gin.Context) {
	var req analytics.RangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	overview, err := h.analytics.AdminOverview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}
