package catalog

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CollectionService manages a vendor's curated collections
type CollectionService struct {
	collectionRepo catalog.CollectionRepository
	productRepo    catalog.ProductRepository
	logger         *zap.Logger
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(
	collectionRepo catalog.CollectionRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		collectionRepo: collectionRepo,
		productRepo:    productRepo,
		logger:         logger,
	}
}

// Create creates a collection; published is applied on top of the new draft
func (s *CollectionService) Create(ctx context.Context, vendorID uuid.UUID, req CollectionRequest) (*CollectionResponse, error) {
	collection, err := catalog.NewCollection(vendorID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if req.Published {
		if err := collection.Update(req.Name, req.Description, true); err != nil {
			return nil, err
		}
	}
	if err := s.assignSlug(ctx, collection); err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}
	s.logger.Info("Collection created",
		zap.String("collection_id", collection.ID.String()),
		zap.String("vendor_id", vendorID.String()))

	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// Update changes name, description and publication
func (s *CollectionService) Update(ctx context.Context, vendorID, id uuid.UUID, req CollectionRequest) (*CollectionResponse, error) {
	collection, err := s.owned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	oldName, oldSlug := collection.Name, collection.Slug
	if err := collection.Update(req.Name, req.Description, req.Published); err != nil {
		return nil, err
	}
	if collection.Name == oldName {
		collection.Slug = oldSlug
	} else if err := s.assignSlug(ctx, collection); err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}

	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// Delete removes a collection. Its products are untouched.
func (s *CollectionService) Delete(ctx context.Context, vendorID, id uuid.UUID) error {
	if _, err := s.owned(ctx, vendorID, id); err != nil {
		return err
	}
	return s.collectionRepo.Delete(ctx, id)
}

// AddProduct appends one of the vendor's products
func (s *CollectionService) AddProduct(ctx context.Context, vendorID, id uuid.UUID, req CollectionItemRequest) (*CollectionResponse, error) {
	collection, err := s.owned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(vendorID) {
		return nil, shared.ErrNotFound
	}
	if err := collection.AddProduct(product); err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}

	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// RemoveProduct drops a product from the collection
func (s *CollectionService) RemoveProduct(ctx context.Context, vendorID, id, productID uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.owned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if err := collection.RemoveProduct(productID); err != nil {
		return nil, err
	}
	if err := s.collectionRepo.Save(ctx, collection); err != nil {
		return nil, err
	}

	resp := ToCollectionResponse(collection)
	return &resp, nil
}

// List returns all of the vendor's collections, published or not
func (s *CollectionService) List(ctx context.Context, vendorID uuid.UUID) ([]CollectionResponse, error) {
	collections, err := s.collectionRepo.FindByVendor(ctx, vendorID, false)
	if err != nil {
		return nil, err
	}
	out := make([]CollectionResponse, len(collections))
	for i := range collections {
		out[i] = ToCollectionResponse(&collections[i])
	}
	return out, nil
}

// Get returns a collection with all its products in position order, whatever their status
func (s *CollectionService) Get(ctx context.Context, vendorID, id uuid.UUID) (*CollectionResponse, error) {
	collection, err := s.owned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindByIDs(ctx, collection.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	resp := ToCollectionResponse(collection)
	resp.Products = make([]ProductResponse, 0, len(products))
	for _, pid := range collection.ProductIDs() {
		if p, ok := byID[pid]; ok {
			resp.Products = append(resp.Products, ToProductResponse(p))
		}
	}
	return &resp, nil
}

func (s *CollectionService) owned(ctx context.Context, vendorID, id uuid.UUID) (*catalog.Collection, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if collection.VendorID != vendorID {
		return nil, shared.ErrNotFound
	}
	return collection, nil
}

func (s *CollectionService) assignSlug(ctx context.Context, collection *catalog.Collection) error {
	slug, err := shared.UniqueSlug(ctx, collection.Slug, func(ctx context.Context, slug string) (bool, error) {
		return s.collectionRepo.ExistsBySlug(ctx, collection.VendorID, slug, collection.ID)
	})
	if err != nil {
		return err
	}
	collection.Slug = slug
	return nil
}
