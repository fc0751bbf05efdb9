package handler

import (
	"github.com/atelier/marketplace/internal/application/promotion"
	"github.com/atelier/marketplace/internal/application/shopping"
	"github.com/gin-gonic/gin"
)

// ShoppingHandler serves the customer's cart, wishlist and coupon preview
type ShoppingHandler struct {
	BaseHandler
	carts     *shopping.CartService
	wishlists *shopping.WishlistService
	coupons   *promotion.CouponService
}

// NewShoppingHandler creates a new shopping handler
func NewShoppingHandler(carts *shopping.CartService, wishlists *shopping.WishlistService, coupons *promotion.CouponService) *ShoppingHandler {
	return &ShoppingHandler{carts: carts, wishlists: wishlists, coupons: coupons}
}

// GetCart godoc
// @Summary      Get cart
// @Description  Get cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=shopping.CartView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart [get]
func (h *ShoppingHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddCartItem godoc
// @Summary      Add item to cart
// @Description  Add a product to the cart. Adding an existing product increases its quantity.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body shopping.AddCartItemRequest true "Product and quantity"
// @Success      200 {object} dto.Response{data=shopping.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *ShoppingHandler) AddCartItem(c *gin.Context) {
	var req shopping.AddCartItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateCartItem godoc
// @Summary      Update cart item
// @Description  Set the quantity of a cart line. Quantity 0 removes the line.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body shopping.UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=shopping.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items/{product_id} [put]
func (h *ShoppingHandler) UpdateCartItem(c *gin.Context) {
	productID, ok := h.PathUUID(c, "product_id")
	if !ok {
		return
	}
	var req shopping.UpdateCartItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.carts.UpdateItem(c.Request.Context(), caller(c), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveCartItem godoc
// @Summary      Remove cart item
// @Description  Remove cart item
// @Tags         cart
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=shopping.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart/items/{product_id} [delete]
func (h *ShoppingHandler) RemoveCartItem(c *gin.Context) {
	productID, ok := h.PathUUID(c, "product_id")
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), caller(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ClearCart godoc
// @Summary      Clear cart
// @Description  Clear cart
// @Tags         cart
// @Produce      json
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *ShoppingHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), caller(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListWishlist godoc
// @Summary      List wishlist
// @Description  List wishlist
// @Tags         wishlist
// @Produce      json
// @Success      200 {object} dto.Response{data=[]shopping.WishlistItem}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist [get]
func (h *ShoppingHandler) ListWishlist(c *gin.Context) {
	items, err := h.wishlists.List(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// AddToWishlist godoc
// @Summary      Add to wishlist
// @Description  Add to wishlist
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        request body shopping.WishlistRequest true "Product"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist [post]
func (h *ShoppingHandler) AddToWishlist(c *gin.Context) {
	var req shopping.WishlistRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.wishlists.Add(c.Request.Context(), caller(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"product_id": req.ProductID})
}

// RemoveFromWishlist godoc
// @Summary      Remove from wishlist
// @Description  Remove from wishlist
// @Tags         wishlist
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist/{product_id} [delete]
func (h *ShoppingHandler) RemoveFromWishlist(c *gin.Context) {
	productID, ok := h.PathUUID(c, "product_id")
	if !ok {
		return
	}
	if err := h.wishlists.Remove(c.Request.Context(), caller(c), productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MoveToCart godoc
// @Summary      Move wishlist item to cart
// @Description  Move wishlist item to cart
// @Tags         wishlist
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=shopping.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /wishlist/{product_id}/move-to-cart [post]
func (h *ShoppingHandler) MoveToCart(c *gin.Context) {
	productID, ok := h.PathUUID(c, "product_id")
	if !ok {
		return
	}
	cart, err := h.wishlists.MoveToCart(c.Request.Context(), caller(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// PreviewCoupon godoc
// @Summary      Preview coupon
// @Description  Compute the discount a coupon would give on the current cart
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        request body promotion.PreviewRequest true "Coupon code"
// @Success      200 {object} dto.Response{data=promotion.PreviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /coupons/preview [post]
func (h *ShoppingHandler) PreviewCoupon(c *gin.Context) {
	var req promotion.PreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	preview, err := h.coupons.Preview(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}
