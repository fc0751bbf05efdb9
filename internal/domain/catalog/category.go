package catalog

import (
	"strings"

	"github.com/atelier/marketplace/internal/domain/shared"
)

// Category groups products on the storefront. Categories are managed by admins.
type Category struct {
	shared.BaseEntity
	Name      string
	Slug      string
	SortOrder int
}

// NewCategory creates a new category
func NewCategory(name string, sortOrder int) (*Category, error) {
	c := &Category{BaseEntity: shared.NewBaseEntity()}
	if err := c.Update(name, sortOrder); err != nil {
		return nil, err
	}
	return c, nil
}

// Update renames the category and changes its position
func (c *Category) Update(name string, sortOrder int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	slug := shared.Slugify(name)
	if slug == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name must contain letters or digits")
	}
	if sortOrder < 0 {
		return shared.NewDomainError("INVALID_SORT_ORDER", "Sort order cannot be negative")
	}
	c.Name = name
	c.Slug = slug
	c.SortOrder = sortOrder
	c.Touch()
	return nil
}
