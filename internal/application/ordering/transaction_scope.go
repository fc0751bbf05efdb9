package ordering

import (
	"context"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/promotion"
	"github.com/atelier/marketplace/internal/domain/shopping"
)

// TransactionScope runs order workflows atomically. Every repository handed
// to fn shares one database transaction which is rolled back when fn fails.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories an order workflow touches.
type TransactionalRepositories interface {
	ProductRepo() catalog.ProductRepository
	CouponRepo() promotion.CouponRepository
	OrderRepo() ordering.OrderRepository
	EscrowRepo() escrow.Repository
	CartRepo() shopping.CartRepository
}

// NoOpTransactionScope runs the function against plain repositories without
// a transaction. It exists for tests.
type NoOpTransactionScope struct {
	Products catalog.ProductRepository
	Coupons  promotion.CouponRepository
	Orders   ordering.OrderRepository
	Escrows  escrow.Repository
	Carts    shopping.CartRepository
}

// Execute runs fn directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository { return s.Products }
func (s *NoOpTransactionScope) CouponRepo() promotion.CouponRepository { return s.Coupons }
func (s *NoOpTransactionScope) OrderRepo() ordering.OrderRepository    { return s.Orders }
func (s *NoOpTransactionScope) EscrowRepo() escrow.Repository          { return s.Escrows }
func (s *NoOpTransactionScope) CartRepo() shopping.CartRepository      { return s.Carts }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
