package escrow

import (
	"context"
	"time"

	appordering "github.com/atelier/marketplace/internal/application/ordering"
	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultBatchSize = 100

// ReleaseWindow supplies the current escrow release window
type ReleaseWindow interface {
	ReleaseWindow(ctx context.Context) time.Duration
}

// ReleaseMetrics records escrow payouts
type ReleaseMetrics interface {
	RecordEscrowReleased(ctx context.Context, e *escrow.Escrow)
}

// ReleaseResult summarises one ReleaseDue run
type ReleaseResult struct {
	Released        int `json:"released"`
	OrdersCompleted int `json:"orders_completed"`
	Failed          int `json:"failed"`
}

// Service pays out escrows and reports vendor balances
type Service struct {
	escrowRepo     escrow.Repository
	txScope        appordering.TransactionScope
	window         ReleaseWindow
	currency       valueobject.Currency
	batchSize      int
	metrics        ReleaseMetrics
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new escrow Service
func NewService(
	escrowRepo escrow.Repository,
	txScope appordering.TransactionScope,
	window ReleaseWindow,
	currency valueobject.Currency,
	logger *zap.Logger,
) *Service {
	return &Service{
		escrowRepo: escrowRepo,
		txScope:    txScope,
		window:     window,
		currency:   currency,
		batchSize:  defaultBatchSize,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the payout metrics recorder
func (s *Service) SetMetrics(metrics ReleaseMetrics) {
	s.metrics = metrics
}

// SetBatchSize sets how many due escrows one query loads
func (s *Service) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// ScheduleRelease re-anchors the release of the order's held escrows at anchor plus the window
func (s *Service) ScheduleRelease(ctx context.Context, orderID uuid.UUID, anchor time.Time) (int, error) {
	escrows, err := s.escrowRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}
	changed := escrow.RescheduleHeld(escrows, anchor, s.window.ReleaseWindow(ctx))
	if len(changed) == 0 {
		return 0, nil
	}
	if err := s.escrowRepo.SaveAll(ctx, changed); err != nil {
		return 0, err
	}
	return len(changed), nil
}

// ReleaseDue releases every held escrow whose release time passed and whose
// order is delivered. An order whose escrows are all released is completed.
// Each order is settled in its own transaction and visited once per run;
// later batches skip every order already handled, so a failing order is
// logged and never blocks the ones behind it.
func (s *Service) ReleaseDue(ctx context.Context, now time.Time) (*ReleaseResult, error) {
	result := &ReleaseResult{}
	seen := make(map[uuid.UUID]struct{})
	var skip []uuid.UUID
	for {
		due, err := s.escrowRepo.FindDue(ctx, now, skip, s.batchSize)
		if err != nil {
			return result, err
		}

		fresh := 0
		for _, orderID := range distinctOrders(due) {
			if _, ok := seen[orderID]; ok {
				continue
			}
			seen[orderID] = struct{}{}
			skip = append(skip, orderID)
			fresh++

			released, completed, err := s.settleOrder(ctx, orderID, now)
			if err != nil {
				result.Failed++
				s.logger.Error("Failed to release escrows",
					zap.String("order_id", orderID.String()),
					zap.Error(err))
				continue
			}
			result.Released += released
			if completed {
				result.OrdersCompleted++
			}
		}
		if len(due) < s.batchSize || fresh == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	if result.Released > 0 || result.Failed > 0 {
		s.logger.Info("Escrow release run finished",
			zap.Int("released", result.Released),
			zap.Int("orders_completed", result.OrdersCompleted),
			zap.Int("failed", result.Failed))
	}
	return result, nil
}

func (s *Service) settleOrder(ctx context.Context, orderID uuid.UUID, now time.Time) (int, bool, error) {
	var order *ordering.Order
	var released []*escrow.Escrow
	err := s.txScope.Execute(ctx, func(repos appordering.TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status != ordering.OrderStatusDelivered {
			return nil
		}
		escrows, err := repos.EscrowRepo().FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}

		allReleased := true
		for i := range escrows {
			e := &escrows[i]
			if e.IsDue(now) {
				if err := e.Release("release window elapsed"); err != nil {
					return err
				}
				released = append(released, e)
			}
			if e.Status != escrow.StatusReleased && e.Status != escrow.StatusRefunded {
				allReleased = false
			}
		}
		if len(released) == 0 {
			return nil
		}
		if err := repos.EscrowRepo().SaveAll(ctx, released); err != nil {
			return err
		}
		if !allReleased {
			return nil
		}
		expected := o.Version
		if err := o.Complete(); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, o, expected); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	aggregates := make([]shared.AggregateRoot, 0, len(released)+1)
	for _, e := range released {
		aggregates = append(aggregates, e)
		if s.metrics != nil {
			s.metrics.RecordEscrowReleased(ctx, e)
		}
	}
	if order != nil {
		aggregates = append(aggregates, order)
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, aggregates...); err != nil {
		s.logger.Warn("Failed to publish escrow events", zap.String("order_id", orderID.String()), zap.Error(err))
	}
	return len(released), order != nil, nil
}

func distinctOrders(escrows []escrow.Escrow) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(escrows))
	ids := make([]uuid.UUID, 0, len(escrows))
	for _, e := range escrows {
		if _, ok := seen[e.OrderID]; ok {
			continue
		}
		seen[e.OrderID] = struct{}{}
		ids = append(ids, e.OrderID)
	}
	return ids
}

// ListMine lists the vendor's escrows, newest first
func (s *Service) ListMine(ctx context.Context, vendorID uuid.UUID, filter ListFilter) (*shared.Paginated[EscrowResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize().WithFilter("vendor_id", vendorID)
	if filter.Status != "" {
		status := escrow.Status(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown escrow status: "+filter.Status)
		}
		f = f.WithFilter("status", string(status))
	}
	if filter.OrderID != nil {
		f = f.WithFilter("order_id", *filter.OrderID)
	}

	escrows, total, err := s.escrowRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]EscrowResponse, len(escrows))
	for i := range escrows {
		items[i] = ToEscrowResponse(&escrows[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Balance sums the vendor's escrows by status
func (s *Service) Balance(ctx context.Context, vendorID uuid.UUID) (*escrow.Balance, error) {
	escrows, err := s.escrowRepo.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	b := escrow.ComputeBalance(escrows, s.currency)
	return &b, nil
}
