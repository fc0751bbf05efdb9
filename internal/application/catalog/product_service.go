package catalog

import (
	"context"
	"errors"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService implements the vendor side of the catalog
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft product owned by vendorID
func (s *ProductService) Create(ctx context.Context, vendorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		c, err := valueobject.ParseCurrency(req.Currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
		currency = c
	}

	product, err := catalog.NewProduct(vendorID, catalog.ProductDetails{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		SKU:         req.SKU,
		Size:        req.Size,
		Color:       req.Color,
		Material:    req.Material,
	}, req.Price, currency, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.CompareAtPrice != nil {
		if err := product.SetPrice(req.Price, req.CompareAtPrice); err != nil {
			return nil, err
		}
	}
	if err := s.assignSlug(ctx, product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("vendor_id", vendorID.String()))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies a partial update. Content changes to an approved product
// send it back to review.
func (s *ProductService) Update(ctx context.Context, vendorID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.owned(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	expected := product.Version

	details := catalog.ProductDetails{
		Name:        product.Name,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		SKU:         product.SKU,
		Size:        product.Size,
		Color:       product.Color,
		Material:    product.Material,
	}
	if req.Name != nil {
		details.Name = *req.Name
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.ClearCategory {
		details.CategoryID = nil
	} else if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		details.CategoryID = req.CategoryID
	}
	if req.SKU != nil {
		details.SKU = *req.SKU
	}
	if req.Size != nil {
		details.Size = *req.Size
	}
	if req.Color != nil {
		details.Color = *req.Color
	}
	if req.Material != nil {
		details.Material = *req.Material
	}

	oldSlug := product.Slug
	if err := product.UpdateDetails(details); err != nil {
		return nil, err
	}
	if req.Name == nil {
		product.Slug = oldSlug
	} else if err := s.assignSlug(ctx, product); err != nil {
		return nil, err
	}

	if req.Price != nil || req.CompareAtPrice != nil {
		price := product.Price
		if req.Price != nil {
			price = *req.Price
		}
		compareAt := product.CompareAtPrice
		if req.CompareAtPrice != nil {
			compareAt = req.CompareAtPrice
			if compareAt.IsZero() {
				compareAt = nil
			}
		}
		if err := product.SetPrice(price, compareAt); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.SaveWithLock(ctx, product, expected); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// AdjustStock changes on-hand stock by a signed delta
func (s *ProductService) AdjustStock(ctx context.Context, vendorID, productID uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	return s.mutate(ctx, vendorID, productID, func(p *catalog.Product) error {
		return p.AdjustStock(req.Delta)
	})
}

// Submit sends a product to moderation
func (s *ProductService) Submit(ctx context.Context, vendorID, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, vendorID, productID, (*catalog.Product).Submit)
}

// Archive takes a product off sale
func (s *ProductService) Archive(ctx context.Context, vendorID, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, vendorID, productID, (*catalog.Product).Archive)
}

// Restore brings an archived product back as a draft
func (s *ProductService) Restore(ctx context.Context, vendorID, productID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, vendorID, productID, (*catalog.Product).Restore)
}

// SetShowcase adds or removes an approved product from the vendor's showcase
func (s *ProductService) SetShowcase(ctx context.Context, vendorID, productID uuid.UUID, req SetShowcaseRequest) (*ProductResponse, error) {
	return s.mutate(ctx, vendorID, productID, func(p *catalog.Product) error {
		return p.SetShowcase(req.Showcased)
	})
}

// AddImage appends an image to the gallery
func (s *ProductService) AddImage(ctx context.Context, vendorID, productID uuid.UUID, req AddImageRequest) (*ProductResponse, error) {
	return s.mutate(ctx, vendorID, productID, func(p *catalog.Product) error {
		_, err := p.AddImage(req.URL)
		return err
	})
}

// RemoveImage deletes an image from the gallery
func (s *ProductService) RemoveImage(ctx context.Context, vendorID, productID, imageID uuid.UUID) (*ProductResponse, error) {
	return s.mutate(ctx, vendorID, productID, func(p *catalog.Product) error {
		return p.RemoveImage(imageID)
	})
}

// Delete removes a draft product. Anything that has been submitted is archived instead.
func (s *ProductService) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	product, err := s.owned(ctx, vendorID, productID)
	if err != nil {
		return err
	}
	if product.Status != catalog.ProductStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft products can be deleted; archive it instead")
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	return nil
}

// GetMine returns one of the vendor's products in any status
func (s *ProductService) GetMine(ctx context.Context, vendorID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.owned(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListMine lists the vendor's products
func (s *ProductService) ListMine(ctx context.Context, vendorID uuid.UUID, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize().WithFilter("vendor_id", vendorID)
	if filter.Status != "" {
		if !catalog.ProductStatus(filter.Status).IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown product status")
		}
		f = f.WithFilter("status", filter.Status)
	}

	products, total, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// mutate loads an owned product, applies fn and saves it under the loaded version
func (s *ProductService) mutate(ctx context.Context, vendorID, productID uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.owned(ctx, vendorID, productID)
	if err != nil {
		return nil, err
	}
	expected := product.Version
	if err := fn(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product, expected); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// owned hides products of other vendors behind ErrNotFound
func (s *ProductService) owned(ctx context.Context, vendorID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(vendorID) {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (s *ProductService) assignSlug(ctx context.Context, product *catalog.Product) error {
	slug, err := shared.UniqueSlug(ctx, shared.Slugify(product.Name), func(ctx context.Context, slug string) (bool, error) {
		return s.productRepo.ExistsBySlug(ctx, product.VendorID, slug, product.ID)
	})
	if err != nil {
		return err
	}
	product.Slug = slug
	return nil
}

func (s *ProductService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category does not exist")
		}
		return err
	}
	return nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if err := shared.PublishPending(ctx, s.eventPublisher, product); err != nil {
		s.logger.Warn("Failed to publish product events",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}
}
