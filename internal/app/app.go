package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// App is the wired storefront: record store, services and HTTP surface.
type App struct {
	Config        config.Config
	Fiber         *fiber.App
	Store         repositories.RecordStore
	Auth          *services.AuthService
	Catalog       *services.CatalogService
	Notifications *services.NotificationService

	mqClient *rabbitmq.Client
	closers  []func() error
}

// New builds the application from cfg. The event bus is optional: when
// RABBITMQ_URL is set but unreachable the app starts without it.
func New(cfg config.Config) (*App, error) {
	store, closeStore, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Store: store}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logger.Logger.Warn("event bus unavailable, continuing without it", zap.Error(err))
		} else {
			a.mqClient = mqClient
			publisher = mqClient
			a.closers = append(a.closers, mqClient.Close)
		}
	}
	a.watchStore(publisher)

	// --- Initialize Repositories ---
	ns := cfg.SharedNamespace
	userRepo := repositories.NewRecordUserRepository(store, ns)
	productRepo := repositories.NewRecordProductRepository(store, ns)
	categoryRepo := repositories.NewRecordCategoryRepository(store, ns)
	orderRepo := repositories.NewRecordOrderRepository(store, ns)
	notificationRepo := repositories.NewRecordNotificationRepository(store, ns)
	cartRepo := repositories.NewRecordCartRepository(store)
	sessionRepo := repositories.NewRecordSessionRepository(store)

	// --- Initialize Services ---
	a.Notifications = services.NewNotificationService(notificationRepo)
	a.Catalog = services.NewCatalogService(productRepo, categoryRepo)
	a.Auth = services.NewAuthService(userRepo, sessionRepo, cartRepo, a.Notifications, cfg.JWTSecret)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartService, a.Auth, a.Notifications, publisher)
	addressService := services.NewAddressService(userRepo, a.Auth)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(a.Auth)
	catalogHandler := handlers.NewCatalogHandler(a.Catalog)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	addressHandler := handlers.NewAddressHandler(addressService)
	notificationHandler := handlers.NewNotificationHandler(a.Notifications)

	// --- Initialize Fiber App ---
	a.Fiber = fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
	})
	a.Fiber.Use(fiberlogger.New())
	a.Fiber.Use(middleware.ClientContext(a.Auth))

	a.Fiber.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"store":    cfg.DBDriver,
			"eventBus": a.mqClient != nil,
		})
	})

	// --- API Routes ---
	apiV1 := a.Fiber.Group("/api/v1")

	// Public routes first; everything after the protected group needs a token.
	authHandler.RegisterRoutes(apiV1)
	catalogHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)
	notificationHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(a.Auth))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	addressHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterProtectedRoutes(protectedRoutes)
	if cfg.AdminKey != "" {
		orderHandler.RegisterAdminRoutes(protectedRoutes.Group("/admin", middleware.AdminRequired(cfg.AdminKey)))
	} else {
		logger.Logger.Info("ADMIN_KEY not set, admin routes disabled")
	}

	if cfg.UsesDefaultSecret() {
		logger.Logger.Warn("JWT_SECRET is the default value, set it before deploying")
	}
	return a, nil
}

// OpenStore opens the record store selected by cfg.DBDriver. The returned
// closer may be nil.
func OpenStore(cfg config.Config) (repositories.RecordStore, func() error, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "memory":
		return repositories.NewMemoryRecordStore(), nil, nil
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	store, err := repositories.NewGORMRecordStore(db)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	logger.Logger.Info("record store opened", zap.String("driver", cfg.DBDriver))
	return store, sqlDB.Close, nil
}

// watchStore forwards committed writes to the event bus and logs order
// changes, the refresh signal the admin order count relies on.
func (a *App) watchStore(publisher services.EventPublisher) {
	cancel := a.Store.Subscribe(func(ev repositories.ChangeEvent) {
		if ev.Namespace == a.Config.SharedNamespace && ev.Collection == repositories.CollectionOrders {
			logger.Logger.Info("orders changed", zap.Int64("version", ev.Version))
		}
		if publisher != nil {
			services.PublishStoreChange(publisher, ev)
		}
	})
	a.closers = append(a.closers, func() error {
		cancel()
		return nil
	})
}

// Seed writes the default catalog and welcome notification when absent.
func (a *App) Seed(ctx context.Context) error {
	if err := a.Catalog.Seed(ctx); err != nil {
		return err
	}
	if err := a.Notifications.SeedWelcome(ctx); err != nil {
		return fmt.Errorf("failed to seed notifications: %w", err)
	}
	return nil
}

// ConsumeEvents logs store events from the bus. It is a no-op without one.
func (a *App) ConsumeEvents() error {
	if a.mqClient == nil {
		return nil
	}
	return a.mqClient.Consume(rabbitmq.LogEvent)
}

// Close releases the store and event bus, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
