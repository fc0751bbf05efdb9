package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atelier/marketplace/docs"
	"github.com/atelier/marketplace/internal/infrastructure/config"
	"github.com/atelier/marketplace/internal/infrastructure/logger"
	"github.com/atelier/marketplace/internal/infrastructure/migration"
	"github.com/atelier/marketplace/internal/infrastructure/persistence"
	"github.com/atelier/marketplace/internal/infrastructure/telemetry"
	"github.com/atelier/marketplace/internal/interfaces/http/handler"
	"github.com/atelier/marketplace/internal/interfaces/http/middleware"
	"github.com/atelier/marketplace/internal/interfaces/http/router"
	"github.com/atelier/marketplace/migrations"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

//go:generate swag init -g main.go -d ./,../../internal/interfaces/http/handler,../../internal/interfaces/http/dto -o ../../docs --parseDependency --parseInternal

var version = "dev"

//	@title			Atelier Marketplace API
//	@version		1.0
//	@description	Multi-vendor fashion marketplace: storefront, checkout with escrow, vendor back office and administration.

//	@contact.name	Atelier Engineering
//	@contact.email	engineering@atelier.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	tel, err := telemetry.Setup(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if tel.Logs.IsEnabled() {
		log = tel.Logs.Bridge(log)
	}

	log.Info("Starting marketplace",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	meter := tel.Meter.Meter(cfg.Telemetry.ServiceName)
	if err := telemetry.InstrumentDB(db.DB, meter, telemetry.DBConfig{
		TraceEnabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	app, err := wire(cfg, db, meter, log)
	if err != nil {
		log.Fatal("Failed to wire application", zap.Error(err))
	}
	defer app.close()

	if err := app.start(context.Background()); err != nil {
		log.Fatal("Failed to start background workers", zap.Error(err))
	}

	engine, err := newEngine(cfg, db, app, meter, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	app.stop(ctx)

	log.Info("Server exited gracefully")
}

func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		return err
	}
	applied, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("Schema up to date", zap.Uint("version", applied), zap.Bool("dirty", dirty))
	return nil
}

func newEngine(cfg *config.Config, db *persistence.Database, app *application, meter metric.Meter, log *zap.Logger) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, err
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		return nil, err
	}
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(httpMetrics)
	engine.Use(middleware.Profiling())
	engine.Use(middleware.Secure())

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		app.closers = append(app.closers, limiter.Close)
		engine.Use(middleware.RateLimit(limiter))
	}

	system := handler.NewSystemHandler(cfg.App.Name, version)
	system.AddCheck("database", db.Ping)
	if app.redis != nil {
		system.AddCheck("redis", func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		})
	}
	router.RegisterProbes(engine, system)

	guards := app.guards(cfg)
	if cfg.Swagger.Host != "" {
		docs.SwaggerInfo.Host = cfg.Swagger.Host
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, guards.Authenticate),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.MarketplaceRoutes(app.handlers, guards)...).
		Setup()
	return engine, nil
}
