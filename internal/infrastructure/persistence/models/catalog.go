package models

import (
	"time"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	AggregateModel
	VendorID       uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_product_vendor_slug,priority:1;index"`
	CategoryID     *uuid.UUID            `gorm:"type:uuid;index"`
	Name           string                `gorm:"type:varchar(200);not null"`
	Slug           string                `gorm:"type:varchar(80);not null;uniqueIndex:idx_product_vendor_slug,priority:2"`
	Description    string                `gorm:"type:text"`
	SKU            string                `gorm:"column:sku;type:varchar(64)"`
	Size           string                `gorm:"type:varchar(30)"`
	Color          string                `gorm:"type:varchar(50)"`
	Material       string                `gorm:"type:varchar(100)"`
	Price          decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	CompareAtPrice *decimal.Decimal      `gorm:"type:decimal(12,2)"`
	Currency       string                `gorm:"type:char(3);not null"`
	Stock          int                   `gorm:"not null;default:0"`
	Status         catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Showcased      bool                  `gorm:"not null;default:false;index"`
	ModerationNote string                `gorm:"type:varchar(1000)"`
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	Images         []ProductImageModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.Aggregate(),
		VendorID:          m.VendorID,
		CategoryID:        m.CategoryID,
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		SKU:               m.SKU,
		Size:              m.Size,
		Color:             m.Color,
		Material:          m.Material,
		Price:             m.Price,
		CompareAtPrice:    m.CompareAtPrice,
		Currency:          valueobject.Currency(m.Currency),
		Stock:             m.Stock,
		Status:            m.Status,
		Showcased:         m.Showcased,
		ModerationNote:    m.ModerationNote,
		SubmittedAt:       m.SubmittedAt,
		ApprovedAt:        m.ApprovedAt,
		Images:            make([]catalog.ProductImage, len(m.Images)),
	}
	for i, img := range m.Images {
		p.Images[i] = img.ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.SetAggregate(p.BaseAggregateRoot)
	m.VendorID = p.VendorID
	m.CategoryID = p.CategoryID
	m.Name = p.Name
	m.Slug = p.Slug
	m.Description = p.Description
	m.SKU = p.SKU
	m.Size = p.Size
	m.Color = p.Color
	m.Material = p.Material
	m.Price = p.Price
	m.CompareAtPrice = p.CompareAtPrice
	m.Currency = string(p.Currency)
	m.Stock = p.Stock
	m.Status = p.Status
	m.Showcased = p.Showcased
	m.ModerationNote = p.ModerationNote
	m.SubmittedAt = p.SubmittedAt
	m.ApprovedAt = p.ApprovedAt
	m.Images = make([]ProductImageModel, len(p.Images))
	for i, img := range p.Images {
		m.Images[i] = ProductImageModel{ID: img.ID, ProductID: p.ID, URL: img.URL, Position: img.Position}
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductImageModel is one row of a product gallery.
type ProductImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:varchar(1000);not null"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductImageModel) TableName() string {
	return "product_images"
}

// ToDomain converts the row to a domain ProductImage.
func (m *ProductImageModel) ToDomain() catalog.ProductImage {
	return catalog.ProductImage{ID: m.ID, ProductID: m.ProductID, URL: m.URL, Position: m.Position}
}

// CategoryModel is the persistence model for a Category.
type CategoryModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);not null"`
	Slug      string `gorm:"type:varchar(80);not null;uniqueIndex"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.Entity(),
		Name:       m.Name,
		Slug:       m.Slug,
		SortOrder:  m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Category.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.SetEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.SortOrder = c.SortOrder
}

// CategoryModelFromDomain creates a new persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// CollectionModel is the persistence model for the Collection aggregate.
type CollectionModel struct {
	AggregateModel
	VendorID    uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_collection_vendor_slug,priority:1"`
	Name        string                `gorm:"type:varchar(120);not null"`
	Slug        string                `gorm:"type:varchar(80);not null;uniqueIndex:idx_collection_vendor_slug,priority:2"`
	Description string                `gorm:"type:text"`
	Published   bool                  `gorm:"not null;default:false"`
	Items       []CollectionItemModel `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection.
func (m *CollectionModel) ToDomain() *catalog.Collection {
	c := &catalog.Collection{
		BaseAggregateRoot: m.Aggregate(),
		VendorID:          m.VendorID,
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		Published:         m.Published,
		Items:             make([]catalog.CollectionItem, len(m.Items)),
	}
	for i, item := range m.Items {
		c.Items[i] = catalog.CollectionItem{ProductID: item.ProductID, Position: item.Position}
	}
	return c
}

// FromDomain populates the persistence model from a domain Collection.
func (m *CollectionModel) FromDomain(c *catalog.Collection) {
	m.SetAggregate(c.BaseAggregateRoot)
	m.VendorID = c.VendorID
	m.Name = c.Name
	m.Slug = c.Slug
	m.Description = c.Description
	m.Published = c.Published
	m.Items = make([]CollectionItemModel, len(c.Items))
	for i, item := range c.Items {
		m.Items[i] = CollectionItemModel{CollectionID: c.ID, ProductID: item.ProductID, Position: item.Position}
	}
}

// CollectionModelFromDomain creates a new persistence model from a domain Collection.
func CollectionModelFromDomain(c *catalog.Collection) *CollectionModel {
	m := &CollectionModel{}
	m.FromDomain(c)
	return m
}

// CollectionItemModel links a product into a collection.
type CollectionItemModel struct {
	CollectionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position     int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CollectionItemModel) TableName() string {
	return "collection_items"
}
