package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spendwise/expense-api/internal/api/handler"
	"github.com/spendwise/expense-api/internal/api/middleware"
	"github.com/spendwise/expense-api/internal/core/service"
	"github.com/spendwise/expense-api/internal/infrastructure/config"
	mongodb "github.com/spendwise/expense-api/internal/infrastructure/db/mongo"
	redisdb "github.com/spendwise/expense-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// All dependencies hang off the two injected client handles; nothing global.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Production())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("expense"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	expenseRepo := mongodb.NewExpenseRepository(db)
	revoker := redisdb.NewRevocationStore(rdb)

	authService := service.NewAuthService(userRepo, revoker, cfg.JWTSecret, cfg.TokenTTL, log)
	expenseService := service.NewExpenseService(expenseRepo, log)
	reportService := service.NewReportService(expenseRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	requireAuth := middleware.Auth(cfg.JWTSecret, revoker)

	// --- Public routes ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout, requireAuth)
	api.GET("/profile", authHandler.Profile, requireAuth)

	// --- Expense routes (all owner-scoped) ---
	expenses := api.Group("/expenses", requireAuth)
	expenses.GET("", expenseHandler.List)
	expenses.POST("", expenseHandler.Create)
	expenses.GET("/:id", expenseHandler.Get)
	expenses.PUT("/:id", expenseHandler.Update)
	expenses.DELETE("/:id", expenseHandler.Delete)

	// --- Report routes ---
	reports := api.Group("/reports", requireAuth)
	reports.GET("/monthly", reportHandler.Monthly)
	reports.GET("/category", reportHandler.Category)
	reports.GET("/stats", reportHandler.Stats)

	return e
}
