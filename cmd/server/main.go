package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/coffeehouse/backend/internal/application/cart"
	catalogapp "github.com/coffeehouse/backend/internal/application/catalog"
	checkoutapp "github.com/coffeehouse/backend/internal/application/checkout"
	identityapp "github.com/coffeehouse/backend/internal/application/identity"
	notificationapp "github.com/coffeehouse/backend/internal/application/notification"
	orderapp "github.com/coffeehouse/backend/internal/application/order"
	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/coffeehouse/backend/internal/infrastructure/auth"
	"github.com/coffeehouse/backend/internal/infrastructure/cache"
	"github.com/coffeehouse/backend/internal/infrastructure/config"
	"github.com/coffeehouse/backend/internal/infrastructure/event"
	"github.com/coffeehouse/backend/internal/infrastructure/logger"
	"github.com/coffeehouse/backend/internal/infrastructure/persistence"
	"github.com/coffeehouse/backend/internal/interfaces/http/handler"
	"github.com/coffeehouse/backend/internal/interfaces/http/middleware"
	"github.com/coffeehouse/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting coffee shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	statsRepo := persistence.NewGormStatsRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event serializer and transactional outbox
	eventSerializer := event.NewEventSerializer()
	event.RegisterDomainEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	orderRepo.SetOutboxEventSaver(outboxPublisher)

	// Cart storage: Redis when reachable, in-process fallback otherwise
	var cartStore cart.Store
	redisStore, err := cache.NewRedisCartStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Cart.TTL)
	if err != nil {
		log.Warn("Redis unavailable, carts will not survive restarts", zap.Error(err))
		memStore := cache.NewInMemoryCartStore(cfg.Cart.TTL)
		defer func() { _ = memStore.Close() }()
		cartStore = memStore
	} else {
		defer func() { _ = redisStore.Close() }()
		cartStore = redisStore
		log.Info("Redis cart store connected", zap.String("addr", cfg.Redis.RedisAddr()))
	}

	// Event bus and notification fan-out
	eventBus := event.NewInMemoryEventBus(log)
	orderEventHandler := notificationapp.NewOrderEventHandler(notificationRepo, log)
	eventBus.Subscribe(orderEventHandler)
	log.Info("Event handlers registered",
		zap.Strings("order_events", orderEventHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor relays persisted order events onto the bus
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	productService := catalogapp.NewProductService(productRepo)
	productService.SetEventPublisher(eventBus)
	cartService := cartapp.NewCartService(cartStore, productRepo, eventBus, log)
	paymentChecker := checkoutapp.NewSimulatedPaymentChecker(cfg.Checkout.QRSuccessRatio, time.Now().UnixNano())
	checkoutService := checkoutapp.NewCheckoutService(cartStore, productRepo, orderRepo, paymentChecker, cfg.Checkout, log)
	checkoutService.SetEventPublisher(eventBus)
	orderService := orderapp.NewOrderService(orderRepo, statsRepo)
	notificationService := notificationapp.NewNotificationService(notificationRepo)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)
	authService.SetEventPublisher(eventBus)

	// Gin engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Route guards shared by the handlers
	requireAuth := middleware.RequireAuth(jwtService)
	requireAdmin := middleware.RequireAdmin()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAuthHandler(authService, requireAuth))
	r.Register(handler.NewProductHandler(productService, requireAuth, requireAdmin))
	r.Register(handler.NewCartHandler(cartService, requireAuth))
	r.Register(handler.NewCheckoutHandler(checkoutService, requireAuth))
	r.Register(handler.NewOrderHandler(orderService, requireAuth, requireAdmin))
	r.Register(handler.NewNotificationHandler(notificationService, requireAuth, requireAdmin))
	r.Register(handler.NewSystemHandler(db.DB, cfg.App.Name))
	r.Setup()

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
