package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/auvet/auth-service/internal/api/handler"
	"github.com/auvet/auth-service/internal/api/middleware"
	"github.com/auvet/auth-service/internal/core/domain"
	"github.com/auvet/auth-service/internal/core/ports"
	"github.com/auvet/auth-service/internal/core/service"
	"github.com/auvet/auth-service/internal/infrastructure/config"
	mongodb "github.com/auvet/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/auvet/auth-service/internal/infrastructure/db/redis"
	"github.com/auvet/auth-service/internal/infrastructure/security"
	"github.com/auvet/auth-service/internal/infrastructure/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, events ports.AuthEventSink) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auvet_auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	userCache := redisdb.NewUserCache(rdb)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	codec := token.NewJWTCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, hasher, codec, userCache, events, log)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(codec)

	// --- Auth routes ---
	e.POST("/auth/register/tutor", authHandler.RegisterTutor)
	e.POST("/auth/register/employee", authHandler.RegisterEmployee)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/validate-token", authHandler.ValidateToken)
	e.GET("/auth/users/:cpf", authHandler.GetUser,
		authMiddleware,
		middleware.RequireUserType(domain.UserTypeEmployee),
		middleware.RequireAccessLevel(1),
	)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
