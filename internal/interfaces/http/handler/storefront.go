package handler

import (
	"github.com/atelier/marketplace/internal/application/catalog"
	"github.com/atelier/marketplace/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the public shop: approved products, showcase,
// categories and vendor storefronts
type StorefrontHandler struct {
	BaseHandler
	storefront *catalog.StorefrontService
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(storefront *catalog.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{storefront: storefront}
}

// ListProducts godoc
// @Summary      List products
// @Description  List approved products of active vendors
// @Tags         storefront
// @Produce      json
// @Param        search query string false "Search term (name, description)"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        vendor_id query string false "Vendor ID" format(uuid)
// @Param        min_price query number false "Minimum price"
// @Param        max_price query number false "Maximum price"
// @Param        sort query string false "Sort order" Enums(newest, price_asc, price_desc, name)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalog.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /shop/products [get]
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	var filter catalog.PublicProductFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.CategoryID, ok = h.QueryUUID(c, "category_id"); !ok {
		return
	}
	if filter.VendorID, ok = h.QueryUUID(c, "vendor_id"); !ok {
		return
	}

	page, err := h.storefront.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetProduct godoc
// @Summary      Get product
// @Description  Get an approved product
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /shop/products/{id} [get]
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.storefront.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListShowcase godoc
// @Summary      List showcase
// @Description  List products featured on the home page
// @Tags         storefront
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalog.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /shop/showcase [get]
func (h *StorefrontHandler) ListShowcase(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	page, err := h.storefront.ListShowcase(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// ListCategories godoc
// @Summary      List categories
// @Description  List categories
// @Tags         storefront
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.CategoryResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /shop/categories [get]
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	categories, err := h.storefront.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetVendor godoc
// @Summary      Get vendor storefront
// @Description  Get a vendor shop with its collections and approved products
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Shop slug"
// @Success      200 {object} dto.Response{data=catalog.StorefrontResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /shop/vendors/{slug} [get]
func (h *StorefrontHandler) GetVendor(c *gin.Context) {
	storefront, err := h.storefront.GetStorefront(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, storefront)
}

// GetCollection godoc
// @Summary      Get vendor collection
// @Description  Get vendor collection
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Shop slug"
// @Param        collection path string true "Collection slug"
// @Success      200 {object} dto.Response{data=catalog.CollectionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /shop/vendors/{slug}/collections/{collection} [get]
func (h *StorefrontHandler) GetCollection(c *gin.Context) {
	collection, err := h.storefront.GetCollection(c.Request.Context(), c.Param("slug"), c.Param("collection"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}
