package shopping

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/atelier/marketplace/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// reasons a cart line cannot be bought right now
const (
	ReasonRemoved           = "removed"
	ReasonNotAvailable      = "not_available"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonCurrencyMismatch  = "currency_mismatch"
)

// CartService manages customer carts
type CartService struct {
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo shopping.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, logger: logger}
}

// GetCart returns the cart priced at current product prices
func (s *CartService) GetCart(ctx context.Context, customerID uuid.UUID) (*CartView, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

// AddItem merges qty units of an approved product into the cart
func (s *CartService) AddItem(ctx context.Context, customerID uuid.UUID, req AddCartItemRequest) (*CartView, error) {
	product, err := s.purchasable(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(product.ID, req.Quantity, product.Stock); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

// UpdateItem replaces a line quantity. Zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, customerID, productID uuid.UUID, req UpdateCartItemRequest) (*CartView, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if req.Quantity == 0 {
		if err := cart.Remove(productID); err != nil {
			return nil, err
		}
	} else {
		product, err := s.purchasable(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := cart.SetQuantity(productID, req.Quantity, product.Stock); err != nil {
			return nil, err
		}
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.price(ctx, cart)
}

// RemoveItem deletes a line
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*CartView, error) {
	return s.UpdateItem(ctx, customerID, productID, UpdateCartItemRequest{Quantity: 0})
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, customerID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, customerID)
}

func (s *CartService) purchasable(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsVisible() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for purchase")
	}
	return product, nil
}

// price joins cart lines with their products. The cart currency is taken
// from the first available line; lines in another currency are flagged.
func (s *CartService) price(ctx context.Context, cart *shopping.Cart) (*CartView, error) {
	view := &CartView{
		CustomerID:  cart.CustomerID,
		Lines:       make([]CartLine, 0, len(cart.Items)),
		Subtotal:    decimal.Zero,
		Currency:    string(valueobject.DefaultCurrency),
		Purchasable: !cart.IsEmpty(),
		UpdatedAt:   cart.UpdatedAt,
	}
	if cart.IsEmpty() {
		return view, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var currency valueobject.Currency
	for _, item := range cart.Items {
		line := CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
		p, ok := byID[item.ProductID]
		switch {
		case !ok:
			line.Unavailable = ReasonRemoved
		case !p.IsVisible():
			line.Unavailable = ReasonNotAvailable
		case p.Stock < item.Quantity:
			line.Unavailable = ReasonInsufficientStock
		case currency != "" && p.Currency != currency:
			line.Unavailable = ReasonCurrencyMismatch
		}
		if ok {
			line.VendorID = p.VendorID
			line.Name = p.Name
			line.Slug = p.Slug
			line.ImageURL = p.PrimaryImageURL()
			line.UnitPrice = p.Price
			line.Stock = p.Stock
			line.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(valueobject.MinorUnits)
		}
		line.Available = line.Unavailable == ""
		if line.Available {
			if currency == "" {
				currency = p.Currency
			}
			view.Subtotal = view.Subtotal.Add(line.LineTotal)
			view.ItemCount += item.Quantity
		} else {
			view.Purchasable = false
		}
		view.Lines = append(view.Lines, line)
	}
	if currency != "" {
		view.Currency = string(currency)
	}
	return view, nil
}
