package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carebridge/practice-api/internal/api/handler"
	"github.com/carebridge/practice-api/internal/api/middleware"
	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
)

// Services bundles the application services the router exposes.
type Services struct {
	Auth         ports.AuthService
	Invites      ports.InviteService
	Requests     ports.RequestService
	Applications ports.ApplicationService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, svc Services, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	inviteHandler := handler.NewInviteHandler(svc.Invites)
	requestHandler := handler.NewRequestHandler(svc.Requests)
	applicationHandler := handler.NewApplicationHandler(svc.Applications)
	registrationHandler := handler.NewRegistrationHandler(svc.Invites, svc.Applications)

	auth := middleware.Auth(jwtSecret)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/v1/applications", applicationHandler.Submit)
	e.POST("/v1/registration/verify", registrationHandler.Verify)
	e.POST("/v1/registration/complete", registrationHandler.Complete)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", auth)
	v1.POST("/invites", inviteHandler.Create, middleware.RBAC(domain.RolePractitioner))
	v1.POST("/invites/verify", inviteHandler.Verify)
	v1.POST("/requests", requestHandler.Create)
	v1.POST("/requests/:id/respond", requestHandler.Respond, middleware.RBAC(domain.RolePractitioner))
	v1.POST("/applications/:id/approve", applicationHandler.Approve, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
