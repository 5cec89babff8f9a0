package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/accounthub/user-service/internal/api/handler"
	"github.com/accounthub/user-service/internal/api/middleware"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/token"
	healthhandlers "github.com/accounthub/user-service/internal/infrastructure/http/handlers"
)

// Deps carries the collaborators the router wires into handlers. The caller
// (process bootstrap) owns construction and lifecycle.
type Deps struct {
	Users    ports.UserRepository
	Auth     ports.AuthService
	Accounts ports.UserService
	Tokens   *token.Manager
	Mongo    *mongo.Database
	Redis    *redis.Client
	Logger   zerolog.Logger
	// Metrics overrides the Prometheus registry for HTTP metrics. Nil means
	// the default registry; tests pass a fresh one to avoid duplicate
	// collector registration across router instances.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	var metricsHandler echo.HandlerFunc
	if deps.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "accounts_http",
			Registerer: deps.Metrics,
		}))
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: deps.Metrics,
		})
	} else {
		e.Use(echoprometheus.NewMiddleware("accounts_http"))
		metricsHandler = echoprometheus.NewHandler()
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Accounts)
	protect := middleware.Protect(deps.Tokens, deps.Users, deps.Logger)

	// --- Auth routes (public) ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// --- User routes (bearer; admin gate composed per route) ---
	users := e.Group("/api/users", protect)
	users.GET("/profile", userHandler.GetProfile)
	users.PUT("/profile", userHandler.UpdateProfile)
	users.GET("", userHandler.ListUsers, middleware.AdminOnly())
	users.DELETE("/:id", userHandler.DeleteUser, middleware.AdminOnly())

	// --- Operational endpoints ---
	healthHandler := healthhandlers.NewHealthHandler()
	readinessHandler := healthhandlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler)

	return e
}
