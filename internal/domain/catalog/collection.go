package catalog

import (
	"strings"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
)

const maxCollectionItems = 200

// CollectionItem places a product in a collection
type CollectionItem struct {
	ProductID uuid.UUID
	Position  int
}

// Collection is a vendor-curated, ordered group of products
type Collection struct {
	shared.BaseAggregateRoot
	VendorID    uuid.UUID
	Name        string
	Slug        string
	Description string
	Published   bool
	Items       []CollectionItem
}

// NewCollection creates an unpublished collection
func NewCollection(vendorID uuid.UUID, name, description string) (*Collection, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	c := &Collection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VendorID:          vendorID,
		Items:             make([]CollectionItem, 0),
	}
	if err := c.Update(name, description, false); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// Update changes the collection details
func (c *Collection) Update(name, description string, published bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot exceed 120 characters")
	}
	slug := shared.Slugify(name)
	if slug == "" {
		return shared.NewDomainError("INVALID_NAME", "Collection name must contain letters or digits")
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	c.Name = name
	c.Slug = slug
	c.Description = strings.TrimSpace(description)
	c.Published = published
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AddProduct appends a product owned by the same vendor
func (c *Collection) AddProduct(p *Product) error {
	if p == nil || !p.OwnedBy(c.VendorID) {
		return shared.NewDomainError("FORBIDDEN", "Only your own products can be added to a collection")
	}
	if c.Contains(p.ID) {
		return nil
	}
	if len(c.Items) >= maxCollectionItems {
		return shared.NewDomainError("COLLECTION_FULL", "Collection cannot hold more products")
	}
	c.Items = append(c.Items, CollectionItem{ProductID: p.ID, Position: len(c.Items)})
	c.Touch()
	c.IncrementVersion()
	return nil
}

// RemoveProduct removes a product and compacts positions
func (c *Collection) RemoveProduct(productID uuid.UUID) error {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			for j := range c.Items {
				c.Items[j].Position = j
			}
			c.Touch()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product is not in this collection")
}

// Contains reports whether the product is in the collection
func (c *Collection) Contains(productID uuid.UUID) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// ProductIDs returns the product IDs in position order
func (c *Collection) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}
	return ids
}
