package shopping

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shopping"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WishlistService manages saved products
type WishlistService struct {
	wishlistRepo shopping.WishlistRepository
	productRepo  catalog.ProductRepository
	carts        *CartService
	logger       *zap.Logger
}

// NewWishlistService creates a new WishlistService. carts is used by MoveToCart.
func NewWishlistService(
	wishlistRepo shopping.WishlistRepository,
	productRepo catalog.ProductRepository,
	carts *CartService,
	logger *zap.Logger,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		carts:        carts,
		logger:       logger,
	}
}

// List returns the saved products that are still approved, newest first
func (s *WishlistService) List(ctx context.Context, customerID uuid.UUID) ([]WishlistItem, error) {
	wishlist, err := s.wishlistRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]WishlistItem, 0, len(wishlist.Entries))
	if len(wishlist.Entries) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(wishlist.Entries))
	for i, e := range wishlist.Entries {
		ids[i] = e.ProductID
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for i := len(wishlist.Entries) - 1; i >= 0; i-- {
		e := wishlist.Entries[i]
		p, ok := byID[e.ProductID]
		if !ok || !p.IsVisible() {
			continue
		}
		out = append(out, WishlistItem{
			ProductID: p.ID,
			VendorID:  p.VendorID,
			Name:      p.Name,
			Slug:      p.Slug,
			ImageURL:  p.PrimaryImageURL(),
			Price:     p.Price,
			Currency:  string(p.Currency),
			InStock:   p.Stock > 0,
			AddedAt:   e.AddedAt,
		})
	}
	return out, nil
}

// Add saves an approved product. Saving it twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, customerID uuid.UUID, req WishlistRequest) error {
	if _, err := s.carts.purchasable(ctx, req.ProductID); err != nil {
		return err
	}
	wishlist, err := s.wishlistRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	added, err := wishlist.Add(req.ProductID)
	if err != nil || !added {
		return err
	}
	return s.wishlistRepo.Add(ctx, customerID, req.ProductID)
}

// Remove drops a product; removing an unsaved product is a no-op
func (s *WishlistService) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	return s.wishlistRepo.Remove(ctx, customerID, productID)
}

// MoveToCart adds one unit to the cart and then removes the product from the wishlist
func (s *WishlistService) MoveToCart(ctx context.Context, customerID, productID uuid.UUID) (*CartView, error) {
	view, err := s.carts.AddItem(ctx, customerID, AddCartItemRequest{ProductID: productID, Quantity: 1})
	if err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Remove(ctx, customerID, productID); err != nil {
		// the cart already holds the item
		s.logger.Warn("Failed to remove moved wishlist entry",
			zap.String("customer_id", customerID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err))
	}
	return view, nil
}
