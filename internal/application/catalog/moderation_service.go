package catalog

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ModerationService implements the admin review queue
type ModerationService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewModerationService creates a new ModerationService
func NewModerationService(productRepo catalog.ProductRepository, logger *zap.Logger) *ModerationService {
	return &ModerationService{productRepo: productRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ModerationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ListQueue lists products by status, oldest first. An empty status means pending review.
func (s *ModerationService) ListQueue(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	status := catalog.ProductStatusPendingReview
	if filter.Status != "" {
		status = catalog.ProductStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown product status")
		}
	}
	orderBy, orderDir := filter.OrderBy, filter.OrderDir
	if orderBy == "" {
		orderBy, orderDir = "updated_at", "asc"
	}
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   filter.Search,
	}.Normalize().WithFilter("status", string(status))

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

// Get returns any product regardless of owner or status
func (s *ModerationService) Get(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Approve publishes a product under review
func (s *ModerationService) Approve(ctx context.Context, productID uuid.UUID, req ModerationRequest) (*ProductResponse, error) {
	return s.moderate(ctx, productID, "approve", func(p *catalog.Product) error {
		return p.Approve(req.Reason)
	})
}

// Reject returns a product to its vendor with a reason
func (s *ModerationService) Reject(ctx context.Context, productID uuid.UUID, req ModerationRequest) (*ProductResponse, error) {
	return s.moderate(ctx, productID, "reject", func(p *catalog.Product) error {
		return p.Reject(req.Reason)
	})
}

// RemoveFromShowcase pulls a product out of its vendor's showcase
func (s *ModerationService) RemoveFromShowcase(ctx context.Context, productID uuid.UUID, req ModerationRequest) (*ProductResponse, error) {
	return s.moderate(ctx, productID, "unshowcase", func(p *catalog.Product) error {
		return p.RemoveFromShowcase(req.Reason)
	})
}

func (s *ModerationService) moderate(ctx context.Context, productID uuid.UUID, action string, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
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
	if err := shared.PublishPending(ctx, s.eventPublisher, product); err != nil {
		s.logger.Warn("Failed to publish moderation events", zap.Error(err))
	}

	s.logger.Info("Product moderated",
		zap.String("product_id", productID.String()),
		zap.String("action", action),
		zap.String("status", string(product.Status)))

	resp := ToProductResponse(product)
	return &resp, nil
}
