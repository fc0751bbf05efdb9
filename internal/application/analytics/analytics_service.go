package analytics

import (
	"context"
	"time"

	"github.com/atelier/marketplace/internal/domain/analytics"
	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RangeRequest is the reporting window; both bounds are calendar days
type RangeRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// Service builds dashboards from data loaded in parallel
type Service struct {
	orderRepo   ordering.OrderRepository
	productRepo catalog.ProductRepository
	escrowRepo  escrow.Repository
	userRepo    identity.UserRepository
	profileRepo identity.ProfessionalRepository
	currency    valueobject.Currency
	now         func() time.Time
	logger      *zap.Logger
}

// NewService creates a new analytics Service
func NewService(
	orderRepo ordering.OrderRepository,
	productRepo catalog.ProductRepository,
	escrowRepo escrow.Repository,
	userRepo identity.UserRepository,
	profileRepo identity.ProfessionalRepository,
	currency valueobject.Currency,
	logger *zap.Logger,
) *Service {
	return &Service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		escrowRepo:  escrowRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		currency:    currency,
		now:         time.Now,
		logger:      logger,
	}
}

// VendorDashboard reports the vendor's sales in the range, their catalogue and escrow balance
func (s *Service) VendorDashboard(ctx context.Context, vendorID uuid.UUID, req RangeRequest) (*analytics.VendorDashboard, error) {
	r, err := analytics.NewRange(req.From, req.To, s.now())
	if err != nil {
		return nil, err
	}

	var (
		orders  []ordering.Order
		counts  map[catalog.ProductStatus]int64
		escrows []escrow.Escrow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orderRepo.FindInRange(gctx, &vendorID, r.From, r.To)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.productRepo.CountByStatus(gctx, &vendorID)
		return err
	})
	g.Go(func() error {
		var err error
		escrows, err = s.escrowRepo.FindByVendor(gctx, vendorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := analytics.BuildVendorDashboard(vendorID, r, orders, counts, escrow.ComputeBalance(escrows, s.currency))
	s.logger.Debug("Vendor dashboard built",
		zap.String("vendor_id", vendorID.String()),
		zap.Int("orders", d.Orders),
		zap.Time("from", r.From),
		zap.Time("to", r.To))
	return &d, nil
}

// AdminOverview reports marketplace-wide GMV, orders, sign-ups, moderation backlog and top vendors
func (s *Service) AdminOverview(ctx context.Context, req RangeRequest) (*analytics.AdminOverview, error) {
	r, err := analytics.NewRange(req.From, req.To, s.now())
	if err != nil {
		return nil, err
	}

	var (
		orders   []ordering.Order
		newUsers map[identity.Role]int64
		counts   map[catalog.ProductStatus]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orderRepo.FindInRange(gctx, nil, r.From, r.To)
		return err
	})
	g.Go(func() error {
		var err error
		newUsers, err = s.userRepo.CountCreatedByRole(gctx, r.From, r.To)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.productRepo.CountByStatus(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	shopNames, err := s.shopNames(ctx, orders)
	if err != nil {
		return nil, err
	}
	o := analytics.BuildAdminOverview(r, orders, newUsers, counts[catalog.ProductStatusPendingReview], shopNames)
	return &o, nil
}

func (s *Service) shopNames(ctx context.Context, orders []ordering.Order) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for i := range orders {
		for _, v := range orders[i].VendorIDs() {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			ids = append(ids, v)
		}
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	profiles, err := s.profileRepo.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		names[p.UserID] = p.ShopName
	}
	return names, nil
}
