package catalog

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description" binding:"max=10000"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	SKU            string           `json:"sku" binding:"max=64"`
	Size           string           `json:"size" binding:"max=40"`
	Color          string           `json:"color" binding:"max=40"`
	Material       string           `json:"material" binding:"max=80"`
	Price          decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Currency       string           `json:"currency" binding:"omitempty,currency"`
	Stock          int              `json:"stock" binding:"min=0"`
}

// UpdateProductRequest represents a partial product update. Nil fields are
// unchanged; a zero compare_at_price clears it.
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=10000"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	ClearCategory  bool             `json:"clear_category"`
	SKU            *string          `json:"sku" binding:"omitempty,max=64"`
	Size           *string          `json:"size" binding:"omitempty,max=40"`
	Color          *string          `json:"color" binding:"omitempty,max=40"`
	Material       *string          `json:"material" binding:"omitempty,max=80"`
	Price          *decimal.Decimal `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
}

// AdjustStockRequest changes stock by a signed delta
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// SetShowcaseRequest toggles the showcase flag
type SetShowcaseRequest struct {
	Showcased bool `json:"showcased"`
}

// AddImageRequest attaches an uploaded image
type AddImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ModerationRequest carries a moderator's note or reason
type ModerationRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ProductListFilter is the vendor/admin product listing filter
type ProductListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PublicProductFilter is the storefront product search
type PublicProductFilter struct {
	Page       int              `form:"page" binding:"omitempty,min=1"`
	PageSize   int              `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string           `form:"search"`
	CategoryID *uuid.UUID       `form:"-"` // category_id, parsed by the handler
	VendorID   *uuid.UUID       `form:"-"` // vendor_id
	MinPrice   *decimal.Decimal `form:"min_price"`
	MaxPrice   *decimal.Decimal `form:"max_price"`
	Sort       string           `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc name"`
}

// ImageResponse represents a product image
type ImageResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
}

// VendorSummary is the shop shown next to a public product
type VendorSummary struct {
	ID       uuid.UUID `json:"id"`
	ShopName string    `json:"shop_name"`
	Slug     string    `json:"slug"`
	LogoURL  string    `json:"logo_url,omitempty"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	VendorID       uuid.UUID        `json:"vendor_id"`
	Vendor         *VendorSummary   `json:"vendor,omitempty"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description"`
	SKU            string           `json:"sku,omitempty"`
	Size           string           `json:"size,omitempty"`
	Color          string           `json:"color,omitempty"`
	Material       string           `json:"material,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
	Currency       string           `json:"currency"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"in_stock"`
	Status         string           `json:"status"`
	Showcased      bool             `json:"showcased"`
	ModerationNote string           `json:"moderation_note,omitempty"`
	Images         []ImageResponse  `json:"images"`
	Version        int              `json:"version"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
	ApprovedAt     *time.Time       `json:"approved_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := make([]ImageResponse, len(p.Images))
	for i, img := range p.Images {
		images[i] = ImageResponse{ID: img.ID, URL: img.URL, Position: img.Position}
	}
	return ProductResponse{
		ID:             p.ID,
		VendorID:       p.VendorID,
		CategoryID:     p.CategoryID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		SKU:            p.SKU,
		Size:           p.Size,
		Color:          p.Color,
		Material:       p.Material,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		Currency:       string(p.Currency),
		Stock:          p.Stock,
		InStock:        p.Stock > 0,
		Status:         string(p.Status),
		Showcased:      p.Showcased,
		ModerationNote: p.ModerationNote,
		Images:         images,
		Version:        p.Version,
		SubmittedAt:    p.SubmittedAt,
		ApprovedAt:     p.ApprovedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// toPublicProductResponse hides vendor-only fields
func toPublicProductResponse(p *catalog.Product, vendor *identity.ProfessionalProfile) ProductResponse {
	resp := ToProductResponse(p)
	resp.ModerationNote = ""
	resp.SubmittedAt = nil
	if vendor != nil {
		summary := vendorSummary(vendor)
		resp.Vendor = &summary
	}
	return resp
}

// CollectionRequest creates or updates a collection
type CollectionRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=2000"`
	Published   bool   `json:"published"`
}

// CollectionItemRequest adds a product to a collection
type CollectionItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// CollectionResponse represents a collection. Products are filled on detail reads.
type CollectionResponse struct {
	ID          uuid.UUID         `json:"id"`
	VendorID    uuid.UUID         `json:"vendor_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Published   bool              `json:"published"`
	ProductIDs  []uuid.UUID       `json:"product_ids"`
	Products    []ProductResponse `json:"products,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToCollectionResponse converts a domain collection to a response
func ToCollectionResponse(c *catalog.Collection) CollectionResponse {
	return CollectionResponse{
		ID:          c.ID,
		VendorID:    c.VendorID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Published:   c.Published,
		ProductIDs:  c.ProductIDs(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	SortOrder int    `json:"sort_order" binding:"min=0"`
}

// CategoryResponse represents a category
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"sort_order"`
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug, SortOrder: c.SortOrder}
}

// StorefrontResponse is a vendor's public shop page
type StorefrontResponse struct {
	Shop        VendorSummary        `json:"shop"`
	Bio         string               `json:"bio,omitempty"`
	Verified    bool                 `json:"verified"`
	Showcase    []ProductResponse    `json:"showcase"`
	Collections []CollectionResponse `json:"collections"`
}
