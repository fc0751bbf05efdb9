package catalog

import (
	"net/url"
	"strings"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the moderation lifecycle of a product
type ProductStatus string

const (
	ProductStatusDraft         ProductStatus = "draft"
	ProductStatusPendingReview ProductStatus = "pending_review"
	ProductStatusApproved      ProductStatus = "approved"
	ProductStatusRejected      ProductStatus = "rejected"
	ProductStatusArchived      ProductStatus = "archived"
)

// IsValid checks if the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPendingReview, ProductStatusApproved,
		ProductStatusRejected, ProductStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition to target is allowed
func (s ProductStatus) CanTransitionTo(target ProductStatus) bool {
	switch s {
	case ProductStatusDraft:
		return target == ProductStatusPendingReview || target == ProductStatusArchived
	case ProductStatusPendingReview:
		return target == ProductStatusApproved || target == ProductStatusRejected
	case ProductStatusApproved:
		return target == ProductStatusPendingReview || target == ProductStatusArchived
	case ProductStatusRejected:
		return target == ProductStatusPendingReview || target == ProductStatusArchived
	case ProductStatusArchived:
		return target == ProductStatusDraft
	}
	return false
}

const (
	maxProductImages = 10
	maxStockPerSKU   = 100000
)

// ProductImage is an ordered picture of a product
type ProductImage struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	URL       string
	Position  int
}

// ProductDetails carries the content fields moderators review
type ProductDetails struct {
	Name        string
	Description string
	CategoryID  *uuid.UUID
	SKU         string
	Size        string
	Color       string
	Material    string
}

// Product is a vendor listing and the aggregate root of the catalog
type Product struct {
	shared.BaseAggregateRoot
	VendorID       uuid.UUID
	CategoryID     *uuid.UUID
	Name           string
	Slug           string
	Description    string
	SKU            string
	Size           string
	Color          string
	Material       string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Currency       valueobject.Currency
	Stock          int
	Status         ProductStatus
	Showcased      bool
	ModerationNote string
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	Images         []ProductImage
}

// NewProduct creates a draft product for a vendor
func NewProduct(vendorID uuid.UUID, details ProductDetails, price decimal.Decimal, currency valueobject.Currency, stock int) (*Product, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		Currency:          currency,
		Status:            ProductStatusDraft,
		Images:            make([]ProductImage, 0),
	}
	if err := p.applyDetails(details); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price, nil); err != nil {
		return nil, err
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}
	p.Stock = stock
	p.Version = 1
	p.ClearEvents()
	p.Raise(NewProductCreatedEvent(p))
	return p, nil
}

func (p *Product) applyDetails(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	slug := shared.Slugify(name)
	if slug == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name must contain letters or digits")
	}
	if len(d.Description) > 10000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 10000 characters")
	}
	if len(d.SKU) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	p.Name = name
	p.Slug = slug
	p.Description = strings.TrimSpace(d.Description)
	p.CategoryID = d.CategoryID
	p.SKU = strings.ToUpper(strings.TrimSpace(d.SKU))
	p.Size = strings.TrimSpace(d.Size)
	p.Color = strings.TrimSpace(d.Color)
	p.Material = strings.TrimSpace(d.Material)
	return nil
}

func (p *Product) contentDiffers(d ProductDetails) bool {
	sameCategory := (p.CategoryID == nil && d.CategoryID == nil) ||
		(p.CategoryID != nil && d.CategoryID != nil && *p.CategoryID == *d.CategoryID)
	return strings.TrimSpace(d.Name) != p.Name ||
		strings.TrimSpace(d.Description) != p.Description ||
		!sameCategory ||
		strings.TrimSpace(d.Size) != p.Size ||
		strings.TrimSpace(d.Color) != p.Color ||
		strings.TrimSpace(d.Material) != p.Material
}

// UpdateDetails edits the product content. Content changes to an approved
// product send it back to moderation.
func (p *Product) UpdateDetails(d ProductDetails) error {
	if p.Status == ProductStatusArchived {
		return shared.NewDomainError("PRODUCT_ARCHIVED", "Archived products cannot be edited")
	}
	changed := p.contentDiffers(d)
	if err := p.applyDetails(d); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	if changed && p.Status == ProductStatusApproved {
		return p.transition(ProductStatusPendingReview, "")
	}
	return nil
}

// SetPrice updates the selling price and optional compare-at price
func (p *Product) SetPrice(price decimal.Decimal, compareAt *decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if price.Exponent() < -valueobject.MinorUnits {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot have more than 2 decimal places")
	}
	if compareAt != nil && !compareAt.GreaterThan(price) {
		return shared.NewDomainError("INVALID_COMPARE_AT_PRICE", "Compare-at price must be greater than price")
	}
	p.Price = price
	p.CompareAtPrice = compareAt
	p.Touch()
	p.IncrementVersion()
	return nil
}

// AdjustStock changes on-hand stock by delta, never going below zero
func (p *Product) AdjustStock(delta int) error {
	next := p.Stock + delta
	if next < 0 {
		return shared.ErrInsufficientStock
	}
	if err := validateStock(next); err != nil {
		return err
	}
	p.Stock = next
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Submit sends a draft or rejected product to moderation
func (p *Product) Submit() error {
	if p.Status != ProductStatusDraft && p.Status != ProductStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Only draft or rejected products can be submitted")
	}
	if len(p.Images) == 0 {
		return shared.NewDomainError("IMAGES_REQUIRED", "At least one image is required before review")
	}
	return p.transition(ProductStatusPendingReview, "")
}

// Approve publishes the product
func (p *Product) Approve(note string) error {
	if err := p.transition(ProductStatusApproved, note); err != nil {
		return err
	}
	now := time.Now()
	p.ApprovedAt = &now
	return nil
}

// Reject returns the product to the vendor with a reason
func (p *Product) Reject(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A rejection reason is required")
	}
	return p.transition(ProductStatusRejected, reason)
}

// Archive removes the product from sale
func (p *Product) Archive() error {
	return p.transition(ProductStatusArchived, "")
}

// Restore brings an archived product back as a draft
func (p *Product) Restore() error {
	return p.transition(ProductStatusDraft, "")
}

func (p *Product) transition(target ProductStatus, note string) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot move product from "+string(p.Status)+" to "+string(target))
	}
	old := p.Status
	p.Status = target
	if note != "" || target == ProductStatusPendingReview {
		p.ModerationNote = note
	}
	if target == ProductStatusPendingReview {
		now := time.Now()
		p.SubmittedAt = &now
	}
	if target != ProductStatusApproved && p.Showcased {
		p.Showcased = false
		p.Raise(NewProductShowcaseChangedEvent(p, "status changed to "+string(target)))
	}
	p.Touch()
	p.IncrementVersion()
	p.Raise(NewProductStatusChangedEvent(p, old, target, note))
	return nil
}

// SetShowcase adds or removes the product from the vendor's public showcase
func (p *Product) SetShowcase(showcased bool) error {
	if showcased && p.Status != ProductStatusApproved {
		return shared.NewDomainError("NOT_APPROVED", "Only approved products can be showcased")
	}
	if p.Showcased == showcased {
		return nil
	}
	p.Showcased = showcased
	p.Touch()
	p.IncrementVersion()
	p.Raise(NewProductShowcaseChangedEvent(p, ""))
	return nil
}

// RemoveFromShowcase is the moderation action pulling a product from the showcase
func (p *Product) RemoveFromShowcase(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "A reason is required")
	}
	if !p.Showcased {
		return shared.NewDomainError("NOT_SHOWCASED", "Product is not showcased")
	}
	p.Showcased = false
	p.ModerationNote = reason
	p.Touch()
	p.IncrementVersion()
	p.Raise(NewProductShowcaseChangedEvent(p, reason))
	return nil
}

// AddImage appends an image at the end of the gallery
func (p *Product) AddImage(rawURL string) (*ProductImage, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE_URL", "Image URL must be an absolute http(s) URL")
	}
	if len(p.Images) >= maxProductImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES", "A product cannot have more than 10 images")
	}
	img := ProductImage{
		ID:        uuid.New(),
		ProductID: p.ID,
		URL:       rawURL,
		Position:  len(p.Images),
	}
	p.Images = append(p.Images, img)
	p.Touch()
	p.IncrementVersion()
	if p.Status == ProductStatusApproved {
		if err := p.transition(ProductStatusPendingReview, ""); err != nil {
			return nil, err
		}
	}
	return &img, nil
}

// RemoveImage deletes an image and compacts positions
func (p *Product) RemoveImage(imageID uuid.UUID) error {
	idx := -1
	for i, img := range p.Images {
		if img.ID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", "Image not found")
	}
	if p.Status == ProductStatusApproved && len(p.Images) == 1 {
		return shared.NewDomainError("IMAGES_REQUIRED", "An approved product must keep at least one image")
	}
	p.Images = append(p.Images[:idx], p.Images[idx+1:]...)
	for i := range p.Images {
		p.Images[i].Position = i
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsVisible reports whether the product may be shown on the storefront
func (p *Product) IsVisible() bool {
	return p.Status == ProductStatusApproved
}

// IsPurchasable reports whether qty units can be added to a cart
func (p *Product) IsPurchasable(qty int) bool {
	return p.Status == ProductStatusApproved && qty > 0 && p.Stock >= qty
}

// OwnedBy reports whether the vendor owns the product
func (p *Product) OwnedBy(vendorID uuid.UUID) bool {
	return p.VendorID == vendorID
}

// PriceMoney returns the price as Money
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.MustMoney(p.Price, p.Currency)
}

// PrimaryImageURL returns the first image or an empty string
func (p *Product) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

func validateStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if stock > maxStockPerSKU {
		return shared.NewDomainError("INVALID_STOCK", "Stock exceeds the allowed maximum")
	}
	return nil
}
