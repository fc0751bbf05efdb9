//go:build integration

package persistence

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/atelier/marketplace/internal/infrastructure/config"
	"github.com/atelier/marketplace/internal/infrastructure/migration"
	"github.com/atelier/marketplace/migrations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apporder "github.com/atelier/marketplace/internal/application/ordering"
)

// newPostgresDB starts a disposable Postgres container and applies the
// embedded migrations to it.
func newPostgresDB(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("marketplace_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	db, err := NewDatabase(&config.DatabaseConfig{
		Host:            host,
		Port:            portNum,
		User:            "postgres",
		Password:        "postgres",
		DBName:          "marketplace_test",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
		LogLevel:        "silent",
		SlowThreshold:   time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestPostgres_MigrationsAndRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	db := newPostgresDB(t)
	require.NoError(t, db.Ping(ctx))

	products := NewGormProductRepository(db.DB)
	orders := NewGormOrderRepository(db.DB)
	escrows := NewGormEscrowRepository(db.DB)
	vendorID := uuid.New()

	t.Run("concurrent checkouts never oversell", func(t *testing.T) {
		p := approvedProduct(t, vendorID, "Limited Trench", "320.00", 5)
		require.NoError(t, products.Save(ctx, p))

		var sold atomic.Int32
		var g errgroup.Group
		for i := 0; i < 12; i++ {
			g.Go(func() error {
				err := products.DecrementStock(ctx, p.ID, 1)
				if err == nil {
					sold.Add(1)
					return nil
				}
				if errors.Is(err, shared.ErrInsufficientStock) {
					return nil
				}
				return err
			})
		}
		require.NoError(t, g.Wait())
		assert.Equal(t, int32(5), sold.Load())

		found, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.Stock)
	})

	t.Run("transaction scope rolls back on error", func(t *testing.T) {
		p := approvedProduct(t, vendorID, "Pleated Skirt", "90.00", 3)
		require.NoError(t, products.Save(ctx, p))

		scope := NewGormTransactionScope(db.DB)
		err := scope.Execute(ctx, func(repos apporder.TransactionalRepositories) error {
			if err := repos.ProductRepo().DecrementStock(ctx, p.ID, 2); err != nil {
				return err
			}
			return repos.ProductRepo().DecrementStock(ctx, p.ID, 2)
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		found, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, found.Stock)
	})

	t.Run("due escrows follow delivered orders", func(t *testing.T) {
		now := time.Now().UTC()
		o := placedOrder(t, uuid.New(), now.AddDate(0, 0, -30), vendorID)
		o.Status = ordering.OrderStatusDelivered
		require.NoError(t, orders.Save(ctx, o))

		gross := valueobject.MustMoney(decimal.RequireFromString("10.00"), valueobject.EUR)
		e, err := escrow.NewEscrow(o.ID, vendorID, gross, decimal.RequireFromString("0.1"), now.AddDate(0, 0, -30), 14*24*time.Hour)
		require.NoError(t, err)
		require.NoError(t, escrows.Save(ctx, e))

		due, err := escrows.FindDue(ctx, now, nil, 10)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, e.ID, due[0].ID)
		assert.True(t, due[0].Net.Equal(decimal.RequireFromString("9")))
	})
}
