package main

import (
	"context"
	"fmt"

	adminapp "github.com/atelier/marketplace/internal/application/admin"
	"github.com/atelier/marketplace/internal/application/analytics"
	catalogapp "github.com/atelier/marketplace/internal/application/catalog"
	escrowapp "github.com/atelier/marketplace/internal/application/escrow"
	identityapp "github.com/atelier/marketplace/internal/application/identity"
	"github.com/atelier/marketplace/internal/application/media"
	notificationapp "github.com/atelier/marketplace/internal/application/notification"
	orderingapp "github.com/atelier/marketplace/internal/application/ordering"
	"github.com/atelier/marketplace/internal/application/promotion"
	"github.com/atelier/marketplace/internal/application/shopping"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/shared/valueobject"
	"github.com/atelier/marketplace/internal/infrastructure/auth"
	"github.com/atelier/marketplace/internal/infrastructure/cache"
	"github.com/atelier/marketplace/internal/infrastructure/config"
	"github.com/atelier/marketplace/internal/infrastructure/event"
	"github.com/atelier/marketplace/internal/infrastructure/notification"
	"github.com/atelier/marketplace/internal/infrastructure/persistence"
	"github.com/atelier/marketplace/internal/infrastructure/scheduler"
	"github.com/atelier/marketplace/internal/infrastructure/storage"
	"github.com/atelier/marketplace/internal/infrastructure/telemetry"
	"github.com/atelier/marketplace/internal/interfaces/http/handler"
	"github.com/atelier/marketplace/internal/interfaces/http/middleware"
	"github.com/atelier/marketplace/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// application holds the wired services and the background workers they need
type application struct {
	redis     *redis.Client
	bus       *event.InMemoryEventBus
	jobs      *scheduler.Scheduler
	cron      *scheduler.CronTrigger
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	settings  *adminapp.SettingsProvider
	audit     *adminapp.AuditService
	handlers  router.Handlers
	closers   []func()
	logger    *zap.Logger
}

func wire(cfg *config.Config, db *persistence.Database, meter metric.Meter, log *zap.Logger) (*application, error) {
	app := &application{logger: log}

	currency, err := valueobject.ParseCurrency(cfg.Marketplace.Currency)
	if err != nil {
		return nil, fmt.Errorf("marketplace.currency: %w", err)
	}

	// Redis backs the token blacklist and order idempotency. Without it both
	// fall back to process memory, which only holds for a single instance.
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		if cfg.App.Env == "production" {
			return nil, err
		}
		log.Warn("Redis unavailable, using in-memory blacklist and idempotency store", zap.Error(err))
		app.blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		app.redis = redisClient
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
		app.blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	idempotency, err := cache.NewIdempotencyStoreFactory(app.redis,
		cache.WithLogger(log),
		cache.WithKeyPrefix("mkt:idem:"),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		return nil, err
	}

	gdb := db.DB
	userRepo := persistence.NewGormUserRepository(gdb)
	profileRepo := persistence.NewGormProfessionalRepository(gdb)
	addressRepo := persistence.NewGormAddressRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	categoryRepo := persistence.NewGormCategoryRepository(gdb)
	collectionRepo := persistence.NewGormCollectionRepository(gdb)
	cartRepo := persistence.NewGormCartRepository(gdb)
	wishlistRepo := persistence.NewGormWishlistRepository(gdb)
	couponRepo := persistence.NewGormCouponRepository(gdb)
	orderRepo := persistence.NewGormOrderRepository(gdb)
	zoneRepo := persistence.NewGormShippingZoneRepository(gdb)
	escrowRepo := persistence.NewGormEscrowRepository(gdb)
	settingRepo := persistence.NewGormSettingRepository(gdb)
	auditRepo := persistence.NewGormAuditLogRepository(gdb)
	txScope := persistence.NewGormTransactionScope(gdb)

	app.settings = adminapp.NewSettingsProvider(settingRepo, adminapp.Defaults{
		TaxRate:        cfg.Marketplace.TaxRate,
		CommissionRate: cfg.Marketplace.CommissionRate,
		ReleaseWindow:  cfg.Marketplace.EscrowReleaseWindow,
	}, cfg.Marketplace.SettingsCacheTTL, log)
	app.audit = adminapp.NewAuditService(auditRepo, log)

	app.bus = event.NewInMemoryEventBus(log,
		event.WithWorkers(cfg.Event.AsyncWorkers),
		event.WithQueueSize(cfg.Event.QueueSize),
	)
	app.bus.Subscribe(adminapp.NewAuditSubscriber(auditRepo, log))
	if sender := notification.NewWebhookClient(cfg.Notification, log); sender != nil {
		app.bus.Subscribe(notificationapp.NewWebhookHandler(sender, log))
		log.Info("Webhook notifications enabled")
	}

	metrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		return nil, err
	}

	app.jwt = auth.NewJWTService(cfg.JWT)
	accountService := identityapp.NewAccountService(userRepo, profileRepo, addressRepo, log)
	authService := identityapp.NewAuthService(userRepo, profileRepo, app.jwt, app.blacklist, log)
	userAdminService := identityapp.NewUserAdminService(userRepo, profileRepo, app.blacklist, cfg.JWT.RefreshTokenExpiration, log)
	accountService.SetEventPublisher(app.bus)
	authService.SetEventPublisher(app.bus)
	userAdminService.SetEventPublisher(app.bus)

	productService := catalogapp.NewProductService(productRepo, categoryRepo, log)
	moderationService := catalogapp.NewModerationService(productRepo, log)
	productService.SetEventPublisher(app.bus)
	moderationService.SetEventPublisher(app.bus)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	collectionService := catalogapp.NewCollectionService(collectionRepo, productRepo, log)
	storefrontService := catalogapp.NewStorefrontService(productRepo, categoryRepo, collectionRepo, profileRepo, log)

	cartService := shopping.NewCartService(cartRepo, productRepo, log)
	wishlistService := shopping.NewWishlistService(wishlistRepo, productRepo, cartService, log)
	couponService := promotion.NewCouponService(couponRepo, cartService, log)

	orderService := orderingapp.NewOrderService(orderingapp.OrderRepositories{
		Orders:    orderRepo,
		Carts:     cartRepo,
		Products:  productRepo,
		Addresses: addressRepo,
		Zones:     zoneRepo,
		Coupons:   couponRepo,
		Escrows:   escrowRepo,
	}, txScope, app.settings, log)
	orderService.SetEventPublisher(app.bus)
	orderService.SetIdempotencyStore(idempotency, cfg.Marketplace.IdempotencyTTL)
	orderService.SetMetrics(metrics)
	zoneService := orderingapp.NewShippingZoneService(zoneRepo, log)

	escrowService := escrowapp.NewService(escrowRepo, txScope, app.settings, currency, log)
	escrowService.SetEventPublisher(app.bus)
	escrowService.SetMetrics(metrics)
	escrowService.SetBatchSize(cfg.Scheduler.EscrowReleaseBatch)
	analyticsService := analytics.NewService(orderRepo, productRepo, escrowRepo, userRepo, profileRepo, currency, log)

	objects, err := newObjectStorage(cfg, log)
	if err != nil {
		return nil, err
	}
	mediaService := media.NewService(objects, log)

	settingsService := adminapp.NewSettingsService(settingRepo, app.settings, app.audit, log)

	app.handlers = router.Handlers{
		Auth:            handler.NewAuthHandler(authService, accountService),
		Account:         handler.NewAccountHandler(accountService),
		Storefront:      handler.NewStorefrontHandler(storefrontService),
		Shopping:        handler.NewShoppingHandler(cartService, wishlistService, couponService),
		Orders:          handler.NewOrderHandler(orderService),
		Products:        handler.NewProductHandler(productService, mediaService),
		Collections:     handler.NewCollectionHandler(collectionService),
		VendorCoupons:   handler.NewVendorCouponHandler(couponService),
		PlatformCoupons: handler.NewPlatformCouponHandler(couponService),
		CatalogAdmin:    handler.NewCatalogAdminHandler(moderationService, categoryService, storefrontService),
		ShippingZones:   handler.NewShippingZoneHandler(zoneService),
		Finance:         handler.NewFinanceHandler(escrowService, analyticsService),
		Admin:           handler.NewAdminHandler(userAdminService, settingsService, app.audit),
	}

	if cfg.Scheduler.Enabled {
		app.jobs = scheduler.NewScheduler(scheduler.Config{
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, log)
		app.cron = scheduler.NewCronTrigger(app.jobs, log)
		if err := app.cron.Register(scheduler.EscrowReleaseJob, cfg.Scheduler.EscrowReleaseCron,
			scheduler.EscrowReleaseTask(escrowService)); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// newObjectStorage uses S3 when credentials or an endpoint are configured
// and in production. Development falls back to stub URLs.
func newObjectStorage(cfg *config.Config, log *zap.Logger) (media.ObjectStorage, error) {
	s := cfg.Storage
	if s.AccessKeyID != "" || s.Endpoint != "" || cfg.App.Env == "production" {
		s3, err := storage.NewS3Storage(s, log)
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	base := s.PublicBaseURL
	if base == "" {
		base = "http://localhost:" + cfg.App.Port + "/media"
	}
	log.Warn("Object storage not configured, upload URLs are stubs", zap.String("base_url", base))
	return storage.NewStubStorage(base), nil
}

func (a *application) guards(cfg *config.Config) router.Guards {
	authCfg := middleware.AuthConfig{JWTService: a.jwt, Blacklist: a.blacklist, Logger: a.logger}
	g := router.Guards{
		Authenticate: middleware.Authenticate(authCfg),
		OptionalAuth: middleware.OptionalAuthenticate(authCfg),
		Maintenance:  middleware.Maintenance(a.settings, string(identity.RoleAdmin)),
		Audit:        middleware.AuditMutations(a.audit),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		a.closers = append(a.closers, limiter.Close)
		g.AuthLimiter = middleware.RateLimitByKey(limiter, func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		})
	}
	return g
}

func (a *application) start(ctx context.Context) error {
	if err := a.bus.Start(ctx); err != nil {
		return err
	}
	if a.jobs == nil {
		return nil
	}
	if err := a.jobs.Start(ctx); err != nil {
		return err
	}
	if err := a.cron.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("Escrow release job scheduled", zap.String("job", scheduler.EscrowReleaseJob))
	return nil
}

// stop drains the cron trigger first so no job is submitted to a stopped pool
func (a *application) stop(ctx context.Context) {
	if a.cron != nil {
		if err := a.cron.Stop(ctx); err != nil {
			a.logger.Error("Error stopping cron trigger", zap.Error(err))
		}
	}
	if a.jobs != nil {
		if err := a.jobs.Stop(ctx); err != nil {
			a.logger.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := a.bus.Stop(ctx); err != nil {
		a.logger.Error("Error stopping event bus", zap.Error(err))
	}
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
