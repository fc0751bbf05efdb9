package handler

import (
	"net/http"

	"github.com/atelier/marketplace/internal/application/ordering"
	"github.com/atelier/marketplace/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

const maxIdempotencyKeyLength = 128

// ReplayedHeader is set on responses served from an earlier request with
// the same Idempotency-Key
const ReplayedHeader = "Idempotent-Replayed"

// OrderHandler serves the order lifecycle for customers, vendors and admins
type OrderHandler struct {
	BaseHandler
	orders *ordering.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *ordering.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Quote godoc
// @Summary      Quote order
// @Description  Price the cart without placing an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body ordering.QuoteRequest true "Shipping address and optional coupon"
// @Success      200 {object} dto.Response{data=ordering.QuoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/quote [post]
func (h *OrderHandler) Quote(c *gin.Context) {
	var req ordering.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	quote, err := h.orders.QuoteOrder(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// PlaceOrder godoc
// @Summary      Place order
// @Description  Check out the cart. Stock is reserved, the coupon redeemed and one escrow held per vendor. A repeated Idempotency-Key answers 200 with the Idempotent-Replayed header.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays the first response for a repeated key" maxlength(128)
// @Param        request body ordering.PlaceOrderRequest true "Shipping address and optional coupon"
// @Success      201 {object} dto.Response{data=ordering.OrderResponse}
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	key := c.GetHeader(middleware.IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, "INVALID_IDEMPOTENCY_KEY", "Idempotency-Key must be at most 128 characters")
		return
	}
	var req ordering.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, replayed, err := h.orders.PlaceOrder(c.Request.Context(), caller(c), req, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if replayed {
		c.Header(ReplayedHeader, "true")
		h.Success(c, order)
		return
	}
	h.Created(c, order)
}

// ListMine godoc
// @Summary      List my orders
// @Description  List my orders
// @Tags         orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        from query string false "Start date (YYYY-MM-DD)" format(date)
// @Param        to query string false "End date (YYYY-MM-DD)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]ordering.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	var filter ordering.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.orders.ListMyOrders(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetMine godoc
// @Summary      Get my order
// @Description  Get my order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetMine(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetMyOrder(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel order
// @Description  Cancel an order that has not shipped. Stock is restored and escrows refunded.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.ReasonRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req ordering.ReasonRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.CancelOrder(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ConfirmDelivery godoc
// @Summary      Confirm delivery
// @Description  Confirm receipt of a shipped order. This starts the escrow release window.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/confirm-delivery [post]
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.ConfirmDelivery(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// OpenDispute godoc
// @Summary      Open dispute
// @Description  Dispute an order while its escrows are still held
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.ReasonRequest true "Dispute reason"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id}/dispute [post]
func (h *OrderHandler) OpenDispute(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req ordering.ReasonRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.OpenDispute(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListVendorOrders godoc
// @Summary      List vendor orders
// @Description  List orders containing the caller's products
// @Tags         vendor-orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        from query string false "Start date (YYYY-MM-DD)" format(date)
// @Param        to query string false "End date (YYYY-MM-DD)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]ordering.VendorOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/orders [get]
func (h *OrderHandler) ListVendorOrders(c *gin.Context) {
	var filter ordering.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.orders.ListVendorOrders(c.Request.Context(), caller(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetVendorOrder godoc
// @Summary      Get vendor order
// @Description  Get vendor order
// @Tags         vendor-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.VendorOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/orders/{id} [get]
func (h *OrderHandler) GetVendorOrder(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetVendorOrder(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Ship godoc
// @Summary      Ship items
// @Description  Mark the caller's items of an order as shipped
// @Tags         vendor-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.ShipItemsRequest true "Carrier and tracking number"
// @Success      200 {object} dto.Response{data=ordering.VendorOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req ordering.ShipItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.ShipItems(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AdminList godoc
// @Summary      List orders
// @Description  List orders
// @Tags         admin-orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        vendor_id query string false "Vendor ID" format(uuid)
// @Param        from query string false "Start date (YYYY-MM-DD)" format(date)
// @Param        to query string false "End date (YYYY-MM-DD)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]ordering.OrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	var filter ordering.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.CustomerID, ok = h.QueryUUID(c, "customer_id"); !ok {
		return
	}
	if filter.VendorID, ok = h.QueryUUID(c, "vendor_id"); !ok {
		return
	}
	page, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// AdminGet godoc
// @Summary      Get order
// @Description  Get order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) AdminGet(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkDelivered godoc
// @Summary      Mark delivered
// @Description  Mark delivered
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/deliver [post]
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AdminCancel godoc
// @Summary      Cancel order
// @Description  Cancel any order that has not shipped and refund its escrows
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.ReasonRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/cancel [post]
func (h *OrderHandler) AdminCancel(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req ordering.ReasonRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.AdminCancelOrder(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ResolveDispute godoc
// @Summary      Resolve dispute
// @Description  Refund the customer or release the funds to the vendors
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.ResolveDisputeRequest true "Resolution"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/resolve [post]
func (h *OrderHandler) ResolveDispute(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req ordering.ResolveDisputeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.ResolveDispute(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
