package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/civicgate/portal/docs"
	"github.com/civicgate/portal/internal/api/handler"
	"github.com/civicgate/portal/internal/api/middleware"
	"github.com/civicgate/portal/internal/core/domain"
	"github.com/civicgate/portal/internal/core/service"
	mongodb "github.com/civicgate/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/civicgate/portal/internal/infrastructure/db/redis"
	"github.com/civicgate/portal/internal/infrastructure/oauth"
	"github.com/civicgate/portal/internal/infrastructure/queue"
	"github.com/civicgate/portal/internal/pkg/config"
)

// NewRouter builds the Echo instance with all dependencies wired and routes
// registered. The background notification workers run until ctx is cancelled.
func NewRouter(ctx context.Context, cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)

	userService := service.NewUserService(userRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, log)

	notifier := queue.NewNotifier(0, notificationService, log)
	notifier.Start(ctx)

	authService := service.NewAuthService(userRepo, userService, notifier, cfg.JWTSecret, time.Hour, log)
	provider := oauth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	states := redisdb.NewStateStore(rdb)

	authHandler := handler.NewAuthHandler(authService, provider, states, log)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	userHandler := handler.NewUserHandler(userService)

	authMW := middleware.Auth(cfg.JWTSecret, userRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/google", authHandler.GoogleStart)
	e.GET("/auth/google/callback", authHandler.GoogleCallback)
	e.GET("/auth/complete-profile", authHandler.CompleteProfileForm)
	e.POST("/auth/complete-profile", authHandler.CompleteProfile)
	e.POST("/logout", authHandler.Logout)

	// --- Pages ---
	e.GET("/dashboard", authHandler.Dashboard, authMW)
	e.Static("/images", "web/images")

	// --- API ---
	e.GET("/api/notifications", notificationHandler.Feed, authMW)
	e.GET("/api/user-role", userHandler.Role)
	e.GET("/api/users", userHandler.List, authMW, adminOnly)
	e.GET("/api/users/stats", userHandler.Stats, authMW, adminOnly)
	e.DELETE("/api/users/:id", userHandler.Delete, authMW, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
