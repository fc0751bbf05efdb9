package promotion

import (
	"context"
	"errors"
	"time"

	appshopping "github.com/atelier/marketplace/internal/application/shopping"
	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCouponNotFound is returned for unknown coupon codes
var ErrCouponNotFound = shared.NewDomainError("COUPON_NOT_FOUND", "Coupon code is not valid")

// Scope selects whose coupons a call manages: the platform's (admin) or one vendor's
type Scope struct {
	VendorID *uuid.UUID
}

// PlatformScope manages platform-wide coupons
func PlatformScope() Scope { return Scope{} }

// VendorScope manages coupons of one vendor
func VendorScope(vendorID uuid.UUID) Scope { return Scope{VendorID: &vendorID} }

func (s Scope) owns(c *promotion.Coupon) bool {
	if s.VendorID == nil {
		return !c.IsVendorCoupon()
	}
	return c.OwnedBy(*s.VendorID)
}

// CartReader prices the customer's current cart
type CartReader interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*appshopping.CartView, error)
}

// CouponService manages coupons for admins and vendors and previews them for customers
type CouponService struct {
	couponRepo promotion.CouponRepository
	carts      CartReader
	now        func() time.Time
	logger     *zap.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo promotion.CouponRepository, carts CartReader, logger *zap.Logger) *CouponService {
	return &CouponService{couponRepo: couponRepo, carts: carts, now: time.Now, logger: logger}
}

// Create creates a coupon in the given scope
func (s *CouponService) Create(ctx context.Context, scope Scope, req CouponRequest) (*CouponResponse, error) {
	coupon, err := promotion.NewCoupon(req.Code, scope.VendorID, req.terms())
	if err != nil {
		return nil, err
	}
	exists, err := s.couponRepo.ExistsByCode(ctx, coupon.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A coupon with this code already exists")
	}
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	s.logger.Info("Coupon created", zap.String("code", coupon.Code), zap.Bool("vendor", coupon.IsVendorCoupon()))

	resp := ToCouponResponse(coupon)
	return &resp, nil
}

// Update replaces the terms of a coupon
func (s *CouponService) Update(ctx context.Context, scope Scope, id uuid.UUID, req CouponRequest) (*CouponResponse, error) {
	coupon, err := s.owned(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := coupon.UpdateTerms(req.terms()); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon)
	return &resp, nil
}

// Deactivate disables a coupon without deleting it
func (s *CouponService) Deactivate(ctx context.Context, scope Scope, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.owned(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := coupon.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	s.logger.Info("Coupon deactivated", zap.String("code", coupon.Code))
	resp := ToCouponResponse(coupon)
	return &resp, nil
}

// Delete removes a coupon that was never redeemed; used coupons must be deactivated
func (s *CouponService) Delete(ctx context.Context, scope Scope, id uuid.UUID) error {
	coupon, err := s.owned(ctx, scope, id)
	if err != nil {
		return err
	}
	if coupon.UsedCount > 0 {
		return shared.NewDomainError("COUPON_IN_USE", "A redeemed coupon cannot be deleted; deactivate it instead")
	}
	return s.couponRepo.Delete(ctx, id)
}

// Get returns one coupon of the scope
func (s *CouponService) Get(ctx context.Context, scope Scope, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.owned(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToCouponResponse(coupon)
	return &resp, nil
}

// List lists the coupons of the scope
func (s *CouponService) List(ctx context.Context, scope Scope, filter CouponListFilter) (*shared.Paginated[CouponResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}.Normalize()
	if scope.VendorID != nil {
		f = f.WithFilter("vendor_id", *scope.VendorID)
	} else {
		f = f.WithFilter("platform_only", true)
	}
	if filter.Active != nil {
		f = f.WithFilter("active", *filter.Active)
	}

	coupons, total, err := s.couponRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]CouponResponse, len(coupons))
	for i := range coupons {
		items[i] = ToCouponResponse(&coupons[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Preview validates a code against the customer's cart and returns the item discount
func (s *CouponService) Preview(ctx context.Context, customerID uuid.UUID, req PreviewRequest) (*PreviewResponse, error) {
	coupon, err := s.FindActiveByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	currency, err := valueobject.ParseCurrency(cart.Currency)
	if err != nil {
		return nil, err
	}

	lines := make([]promotion.Line, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		if !l.Available {
			continue
		}
		lines = append(lines, promotion.Line{VendorID: l.VendorID, LineTotal: valueobject.MustMoney(l.LineTotal, currency)})
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	d, err := coupon.Apply(s.now(), lines, valueobject.Zero(currency))
	if err != nil {
		return nil, err
	}
	return &PreviewResponse{
		Code:             coupon.Code,
		Type:             string(coupon.Type),
		Subtotal:         cart.Subtotal,
		EligibleSubtotal: d.EligibleSubtotal.Amount(),
		ItemDiscount:     d.ItemDiscount.Amount(),
		FreeShipping:     coupon.Type == promotion.CouponTypeFreeShipping,
		Currency:         string(currency),
	}, nil
}

// FindActiveByCode looks a code up for redemption, mapping unknown codes to COUPON_NOT_FOUND
func (s *CouponService) FindActiveByCode(ctx context.Context, code string) (*promotion.Coupon, error) {
	code = promotion.NormalizeCode(code)
	if code == "" {
		return nil, ErrCouponNotFound
	}
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) owned(ctx context.Context, scope Scope, id uuid.UUID) (*promotion.Coupon, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.owns(coupon) {
		return nil, shared.ErrNotFound
	}
	return coupon, nil
}
