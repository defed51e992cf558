package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agamariel/catering/internal/auth"
	"github.com/agamariel/catering/internal/catalog"
	"github.com/agamariel/catering/internal/config"
	"github.com/agamariel/catering/internal/handlers"
	"github.com/agamariel/catering/internal/migrations"
	"github.com/agamariel/catering/internal/services"
	"github.com/agamariel/catering/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	sqlDB  *sql.DB
	dbPool *pgxpool.Pool
	echo   *echo.Echo

	// Handlers
	userHandler  *handlers.UserHandler
	orderHandler *handlers.OrderHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{
		cfg: cfg,
		log: log,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initDependencies(); err != nil {
		app.closeDatabase()
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app.initServer()

	return app, nil
}

// initDatabase выполняет миграции и открывает подключения к базе.
// database/sql остаётся открытым: через него читаются таблицы каталога.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return errors.New("DATABASE_URI is required")
	}

	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}

	app.log.Info("running database migrations")
	version, err := migrations.Run(sqlDB)
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.log.Info("migrations completed", zap.Int64("version", version))

	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		sqlDB.Close()
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.sqlDB = sqlDB
	app.dbPool = dbPool
	app.log.Info("connected to database")

	return nil
}

// initDependencies инициализирует все зависимости приложения (storage, services, handlers).
func (app *App) initDependencies() error {
	sugar := app.log.Sugar()

	// Storage layer
	userStorage := storage.NewPostgresUserStorage(app.dbPool)
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)
	catalogStorages, err := storage.NewSQLCatalogStorages(app.sqlDB, app.cfg.CatalogTables)
	if err != nil {
		return fmt.Errorf("failed to configure catalog: %w", err)
	}

	sources := make([]services.CatalogSource, 0, len(catalogStorages)+1)
	if app.cfg.CatalogURL != "" {
		sources = append(sources, catalog.NewHTTPClient(app.cfg.CatalogURL, 5*time.Second))
		app.log.Info("remote catalog configured", zap.String("url", app.cfg.CatalogURL))
	}
	for _, s := range catalogStorages {
		sources = append(sources, s)
	}
	app.log.Info("catalog sources configured", zap.Strings("tables", app.cfg.CatalogTables))

	// Service layer
	resolver := services.NewMenuResolver(sugar.Named("catalog"), sources...)
	calculator := services.NewOrderCalculator(resolver)
	userService := services.NewUserService(userStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration)
	orderService := services.NewOrderService(orderStorage, calculator, sugar.Named("orders"))

	// Handler layer
	app.userHandler = handlers.NewUserHandler(userService, app.cfg.TokenExpiration, sugar.Named("http"))
	app.orderHandler = handlers.NewOrderHandler(orderService, userService, sugar.Named("http"))

	return nil
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				app.log.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			app.log.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	// Публичные маршруты (не требуют аутентификации)
	burst := int(app.cfg.AuthRateLimit) * 2
	if burst < 1 {
		burst = 1
	}
	public := e.Group("/api/user")
	public.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(app.cfg.AuthRateLimit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
	}))
	public.POST("/register", app.userHandler.Register)
	public.POST("/login", app.userHandler.Login)

	// Защищённые маршруты (требуют аутентификации)
	protected := e.Group("/api/orders")
	protected.Use(auth.JWTMiddleware(app.cfg.JWTSecret))
	protected.POST("", app.orderHandler.CreateOrder)
	protected.GET("", app.orderHandler.GetOrders)
	protected.POST("/quote", app.orderHandler.QuoteOrder)
	protected.GET("/:id", app.orderHandler.GetOrder)

	app.echo = e
}

// Start запускает HTTP-сервер.
func (app *App) Start() error {
	app.log.Info("starting server", zap.String("address", app.cfg.RunAddress))
	if err := app.echo.Start(app.cfg.RunAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	app.log.Info("shutting down server")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	app.closeDatabase()

	app.log.Info("server gracefully stopped")
	return nil
}

func (app *App) closeDatabase() {
	if app.dbPool != nil {
		app.dbPool.Close()
	}
	if app.sqlDB != nil {
		if err := app.sqlDB.Close(); err != nil {
			app.log.Warn("failed to close database", zap.Error(err))
		}
	}
}
