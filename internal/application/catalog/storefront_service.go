package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// storefront sort keys mapped to repository order fields
var publicSorts = map[string][2]string{
	"":           {"created_at", "desc"},
	"newest":     {"created_at", "desc"},
	"price_asc":  {"price", "asc"},
	"price_desc": {"price", "desc"},
	"name":       {"name", "asc"},
}

const storefrontShowcaseLimit = 24

// StorefrontService serves the public, read-only side of the catalog.
// Only approved products and published collections are ever returned.
type StorefrontService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	collectionRepo catalog.CollectionRepository
	profileRepo    identity.ProfessionalRepository
	logger         *zap.Logger
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	collectionRepo catalog.CollectionRepository,
	profileRepo identity.ProfessionalRepository,
	logger *zap.Logger,
) *StorefrontService {
	return &StorefrontService{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		collectionRepo: collectionRepo,
		profileRepo:    profileRepo,
		logger:         logger,
	}
}

// ListProducts searches approved products
func (s *StorefrontService) ListProducts(ctx context.Context, filter PublicProductFilter) (*shared.Paginated[ProductResponse], error) {
	order, ok := publicSorts[filter.Sort]
	if !ok {
		return nil, shared.NewDomainError("INVALID_SORT", "Unknown sort order")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, shared.NewDomainError("INVALID_PRICE_RANGE", "min_price cannot exceed max_price")
	}

	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  order[0],
		OrderDir: order[1],
		Search:   filter.Search,
	}.Normalize().WithFilter("status", string(catalog.ProductStatusApproved))
	if filter.CategoryID != nil {
		f = f.WithFilter("category_id", *filter.CategoryID)
	}
	if filter.VendorID != nil {
		f = f.WithFilter("vendor_id", *filter.VendorID)
	}
	if filter.MinPrice != nil {
		f = f.WithFilter("min_price", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		f = f.WithFilter("max_price", *filter.MaxPrice)
	}

	return s.page(ctx, f)
}

// ListShowcase returns showcased products across all vendors, most recent first
func (s *StorefrontService) ListShowcase(ctx context.Context, page, pageSize int) (*shared.Paginated[ProductResponse], error) {
	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "updated_at",
		OrderDir: "desc",
	}.Normalize().
		WithFilter("status", string(catalog.ProductStatusApproved)).
		WithFilter("showcased", true)
	return s.page(ctx, f)
}

// GetProduct returns an approved product with its vendor
func (s *StorefrontService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsVisible() {
		return nil, shared.ErrNotFound
	}
	vendor, err := s.profileRepo.FindByUserID(ctx, product.VendorID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	resp := toPublicProductResponse(product, vendor)
	return &resp, nil
}

// GetStorefront returns a vendor's shop page
func (s *StorefrontService) GetStorefront(ctx context.Context, shopSlug string) (*StorefrontResponse, error) {
	shop, err := s.profileRepo.FindBySlug(ctx, shopSlug)
	if err != nil {
		return nil, err
	}

	f := shared.Filter{Page: 1, PageSize: storefrontShowcaseLimit, OrderBy: "updated_at", OrderDir: "desc"}.
		Normalize().
		WithFilter("vendor_id", shop.UserID).
		WithFilter("status", string(catalog.ProductStatusApproved)).
		WithFilter("showcased", true)
	products, _, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	collections, err := s.collectionRepo.FindByVendor(ctx, shop.UserID, true)
	if err != nil {
		return nil, err
	}

	resp := &StorefrontResponse{
		Shop:        vendorSummary(shop),
		Bio:         shop.Bio,
		Verified:    shop.Verified,
		Showcase:    make([]ProductResponse, len(products)),
		Collections: make([]CollectionResponse, len(collections)),
	}
	for i := range products {
		resp.Showcase[i] = toPublicProductResponse(&products[i], shop)
	}
	for i := range collections {
		resp.Collections[i] = ToCollectionResponse(&collections[i])
	}
	return resp, nil
}

// GetCollection returns a published collection with its approved products in position order
func (s *StorefrontService) GetCollection(ctx context.Context, shopSlug, collectionSlug string) (*CollectionResponse, error) {
	shop, err := s.profileRepo.FindBySlug(ctx, shopSlug)
	if err != nil {
		return nil, err
	}
	collection, err := s.collectionRepo.FindBySlug(ctx, shop.UserID, collectionSlug)
	if err != nil {
		return nil, err
	}
	if !collection.Published {
		return nil, shared.ErrNotFound
	}

	resp := ToCollectionResponse(collection)
	products, err := s.productRepo.FindByIDs(ctx, collection.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	resp.ProductIDs = resp.ProductIDs[:0]
	resp.Products = make([]ProductResponse, 0, len(products))
	for _, id := range collection.ProductIDs() {
		p, ok := byID[id]
		if !ok || !p.IsVisible() {
			continue
		}
		resp.ProductIDs = append(resp.ProductIDs, id)
		resp.Products = append(resp.Products, toPublicProductResponse(p, shop))
	}
	return &resp, nil
}

// ListCategories returns all categories by sort order then name
func (s *StorefrontService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].Name < categories[j].Name
	})
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// page runs a product query and attaches the vendors of the returned rows
func (s *StorefrontService) page(ctx context.Context, f shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	var vendorIDs []uuid.UUID
	for i := range products {
		if !seen[products[i].VendorID] {
			seen[products[i].VendorID] = true
			vendorIDs = append(vendorIDs, products[i].VendorID)
		}
	}
	vendors := make(map[uuid.UUID]*identity.ProfessionalProfile, len(vendorIDs))
	if len(vendorIDs) > 0 {
		profiles, err := s.profileRepo.FindByUserIDs(ctx, vendorIDs)
		if err != nil {
			return nil, err
		}
		for i := range profiles {
			vendors[profiles[i].UserID] = &profiles[i]
		}
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = toPublicProductResponse(&products[i], vendors[products[i].VendorID])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

func vendorSummary(p *identity.ProfessionalProfile) VendorSummary {
	return VendorSummary{ID: p.UserID, ShopName: p.ShopName, Slug: p.Slug, LogoURL: p.LogoURL}
}
