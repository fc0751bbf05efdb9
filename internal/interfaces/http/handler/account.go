package handler

import (
	"github.com/atelier/marketplace/internal/application/identity"
	domainidentity "github.com/atelier/marketplace/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// AddressRequest is the body for creating or replacing an address
type AddressRequest struct {
	Label      string `json:"label" binding:"max=40"`
	Recipient  string `json:"recipient" binding:"required,max=100"`
	Phone      string `json:"phone" binding:"max=32"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	Region     string `json:"region" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,country"`
}

func (r AddressRequest) input() domainidentity.AddressInput {
	return domainidentity.AddressInput{
		Label:      r.Label,
		Recipient:  r.Recipient,
		Phone:      r.Phone,
		Line1:      r.Line1,
		Line2:      r.Line2,
		City:       r.City,
		Region:     r.Region,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

// UpdateShopRequest is the body of PUT /pro/shop
type UpdateShopRequest struct {
	ShopName string `json:"shop_name" binding:"required,min=1,max=100"`
	Bio      string `json:"bio" binding:"max=2000"`
	LogoURL  string `json:"logo_url" binding:"omitempty,url,max=500"`
}

// AccountHandler serves the caller's addresses and, for professionals, their shop
type AccountHandler struct {
	BaseHandler
	accountService *identity.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *identity.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ListAddresses godoc
// @Summary      List addresses
// @Description  List addresses
// @Tags         addresses
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identity.AddressResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses [get]
func (h *AccountHandler) ListAddresses(c *gin.Context) {
	addresses, err := h.accountService.ListAddresses(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addresses)
}

// CreateAddress godoc
// @Summary      Create address
// @Description  Add an address. The first address becomes the default.
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body AddressRequest true "Address"
// @Success      201 {object} dto.Response{data=identity.AddressResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses [post]
func (h *AccountHandler) CreateAddress(c *gin.Context) {
	var req AddressRequest
	if !h.BindJSON(c, &req) {
		return
	}
	address, err := h.accountService.CreateAddress(c.Request.Context(), caller(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, address)
}

// UpdateAddress godoc
// @Summary      Update address
// @Description  Update address
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Param        request body AddressRequest true "Address"
// @Success      200 {object} dto.Response{data=identity.AddressResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses/{id} [put]
func (h *AccountHandler) UpdateAddress(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req AddressRequest
	if !h.BindJSON(c, &req) {
		return
	}
	address, err := h.accountService.UpdateAddress(c.Request.Context(), caller(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, address)
}

// DeleteAddress godoc
// @Summary      Delete address
// @Description  Delete an address. Deleting the default promotes the most recent remaining address.
// @Tags         addresses
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses/{id} [delete]
func (h *AccountHandler) DeleteAddress(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.accountService.DeleteAddress(c.Request.Context(), caller(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetDefaultAddress godoc
// @Summary      Set default address
// @Description  Set default address
// @Tags         addresses
// @Produce      json
// @Param        id path string true "Address ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]identity.AddressResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses/{id}/default [put]
func (h *AccountHandler) SetDefaultAddress(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.accountService.SetDefaultAddress(c.Request.Context(), caller(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	addresses, err := h.accountService.ListAddresses(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addresses)
}

// GetShop godoc
// @Summary      Get my shop
// @Description  Get my shop
// @Tags         vendor-shop
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.ShopInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/shop [get]
func (h *AccountHandler) GetShop(c *gin.Context) {
	shop, err := h.accountService.GetShop(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// UpdateShop godoc
// @Summary      Update my shop
// @Description  Update the shop profile. Renaming the shop changes its slug.
// @Tags         vendor-shop
// @Accept       json
// @Produce      json
// @Param        request body UpdateShopRequest true "Shop profile"
// @Success      200 {object} dto.Response{data=identity.ShopInfo}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/shop [put]
func (h *AccountHandler) UpdateShop(c *gin.Context) {
	var req UpdateShopRequest
	if !h.BindJSON(c, &req) {
		return
	}
	shop, err := h.accountService.UpdateShop(c.Request.Context(), caller(c), identity.UpdateShopInput{
		ShopName: req.ShopName,
		Bio:      req.Bio,
		LogoURL:  req.LogoURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}
