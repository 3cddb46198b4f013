package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/shopadmin/backend/internal/application/catalog"
	inventoryapp "github.com/shopadmin/backend/internal/application/inventory"
	"github.com/shopadmin/backend/internal/domain/inventory"
	"github.com/shopadmin/backend/internal/infrastructure/cache"
	"github.com/shopadmin/backend/internal/infrastructure/config"
	"github.com/shopadmin/backend/internal/infrastructure/featureflag"
	"github.com/shopadmin/backend/internal/infrastructure/logger"
	"github.com/shopadmin/backend/internal/infrastructure/persistence"
	"github.com/shopadmin/backend/internal/infrastructure/telemetry"
	"github.com/shopadmin/backend/internal/interfaces/http/handler"
	"github.com/shopadmin/backend/internal/interfaces/http/middleware"
	"github.com/shopadmin/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shopadmin backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Availability cache: Redis when enabled, in-memory fallback otherwise
	var availabilityCache inventory.AvailabilityCache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisInventoryCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cache.WithCacheLogger(log))
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis cache", zap.Error(err))
			}
		}()
		availabilityCache = redisCache
		log.Info("Redis availability cache enabled")
	} else {
		availabilityCache = cache.NewInMemoryInventoryCache()
		log.Info("Availability cache disabled, using in-memory fallback")
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)

	flagGate := featureflag.NewEnvGate(cfg.FeatureFlag.UseVariantLabel)
	aggregator := inventory.NewStockAggregator(productRepo, reservationRepo)
	txScope := persistence.NewGormTransactionScope(db.DB)

	inventoryService := inventoryapp.NewInventoryService(flagGate, aggregator, availabilityCache, txScope, log)
	inventoryService.SetCacheTTL(cfg.Cache.TTL)
	inventoryService.SetReservationTTL(cfg.Reservation.DefaultTTL)

	expirationService := inventoryapp.NewReservationExpirationService(reservationRepo, availabilityCache, log)
	productService := catalogapp.NewProductService(productRepo)

	if cfg.Reservation.Enabled {
		go expirationService.Run(ctx, cfg.Reservation.SweepInterval)
		log.Info("Reservation expiration sweeper started",
			zap.Duration("interval", cfg.Reservation.SweepInterval))
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	r := router.NewRouter(engine, router.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		APIVersion:     "v1",
		TracingEnabled: cfg.Telemetry.Enabled,
		CORS:           corsCfg,
	}, log)
	r.Register(handler.NewInventoryHandler(inventoryService, expirationService, cfg.Reservation.Enabled))
	r.Register(handler.NewProductHandler(productService))
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server stopped")
}
