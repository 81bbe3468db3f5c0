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

	appledger "github.com/silver-g8/furniture-api-sub000/internal/application/ledger"
	apppartner "github.com/silver-g8/furniture-api-sub000/internal/application/partner"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/auth"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/cache"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/config"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/logger"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/persistence"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/telemetry"
	"github.com/silver-g8/furniture-api-sub000/internal/interfaces/http/handler"
	"github.com/silver-g8/furniture-api-sub000/internal/interfaces/http/middleware"
	"github.com/silver-g8/furniture-api-sub000/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Initialize balance cache. Redis being down degrades to direct database
	// reads, it never blocks startup.
	var balanceCache appledger.BalanceCache
	redisCache, err := cache.NewRedisBalanceCache(cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Warn("Balance cache unavailable, falling back to database reads", zap.Error(err))
		balanceCache = appledger.NopBalanceCache{}
	} else {
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing balance cache", zap.Error(err))
			}
		}()
		balanceCache = redisCache
		log.Info("Balance cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize repositories and transaction runner
	stores := persistence.NewStores(db.DB, nil)
	txRunner := persistence.NewGormTxRunner(db, cfg.Audit.Enabled)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)

	// Initialize application services
	receivableService := appledger.NewReceivableService(stores, txRunner, balanceCache, log)
	payableService := appledger.NewPayableService(stores, txRunner, balanceCache, log)
	partnerService := apppartner.NewService(customerRepo, supplierRepo, log)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	receivableHandler := handler.NewReceivableHandler(receivableService)
	payableHandler := handler.NewPayableHandler(payableService)
	partnerHandler := handler.NewPartnerHandler(partnerService)
	healthHandler := handler.NewHealthHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, tracing, CORS
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health probes outside API versioning
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// API routes behind JWT authentication
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
	}))

	r.Register(receivableHandler).
		Register(payableHandler).
		Register(partnerHandler)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
