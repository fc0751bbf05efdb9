package handler

import (
	"github.com/atelier/marketplace/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CollectionHandler serves a professional's curated collections
type CollectionHandler struct {
	BaseHandler
	collections *catalog.CollectionService
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(collections *catalog.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// List godoc
// @Summary      List my collections
// @Description  List my collections
// @Tags         vendor-collections
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalog.CollectionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	collections, err := h.collections.List(c.Request.Context(), caller(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collections)
}

// Get godoc
// @Summary      Get my collection
// @Description  Get my collection
// @Tags         vendor-collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.CollectionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	collection, err := h.collections.Get(c.Request.Context(), caller(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Create godoc
// @Summary      Create collection
// @Description  Create collection
// @Tags         vendor-collections
// @Accept       json
// @Produce      json
// @Param        request body catalog.CollectionRequest true "Collection"
// @Success      201 {object} dto.Response{data=catalog.CollectionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	var req catalog.CollectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	collection, err := h.collections.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, collection)
}

// Update godoc
// @Summary      Update collection
// @Description  Update collection
// @Tags         vendor-collections
// @Accept       json
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Param        request body catalog.CollectionRequest true "Collection"
// @Success      200 {object} dto.Response{data=catalog.CollectionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/collections/{id} [put]
func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.CollectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	collection, err := h.collections.Update(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Delete godoc
// @Summary      Delete collection
// @Description  Delete collection
// @Tags         vendor-collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/collections/{id} [delete]
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.collections.Delete(c.Request.Context(), caller(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem godoc
// @Summary      Add product to collection
// @Description  Add product to collection
// @Tags         vendor-collections
// @Accept       json
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Param        request body catalog.CollectionItemRequest true "Product"
// @Success      200 {object} dto.Response{data=catalog.CollectionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/collections/{id}/items [post]
func (h *CollectionHandler) AddItem(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.CollectionItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	collection, err := h.collections.AddProduct(c.Request.Context(), caller(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// RemoveItem godoc
// @Summary      Remove product from collection
// @Description  Remove product from collection
// @Tags         vendor-collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalog.CollectionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pro/collections/{id}/items/{product_id} [delete]
func (h *CollectionHandler) RemoveItem(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "product_id")
	if !ok {
		return
	}
	collection, err := h.collections.RemoveProduct(c.Request.Context(), caller(c), id, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}
