package api

import (
	"slices"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/eduportal/academic-api/docs"
	"github.com/eduportal/academic-api/internal/api/handler"
	"github.com/eduportal/academic-api/internal/api/middleware"
	"github.com/eduportal/academic-api/internal/core/ports"
)

// Deps is everything the HTTP layer needs. Limiter may be nil, which disables
// rate limiting.
type Deps struct {
	AuthService    ports.AuthService
	UserService    ports.UserService
	RequestService ports.RequestService
	Limiter        middleware.Limiter
	Readiness      map[string]handler.Pinger

	AllowedOrigins     []string
	AllowAllOrigins    bool
	RevealUnknownEmail bool

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// prometheus default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(deps)))
	e.Use(echomiddleware.BodyLimit("6M"))
	e.Use(metricsMiddleware(deps.Registry))

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.RevealUnknownEmail)
	userHandler := handler.NewUserHandler(deps.UserService)
	requestHandler := handler.NewRequestHandler(deps.RequestService)

	requireAuth := middleware.Auth(deps.AuthService)
	adminOnly := []echo.MiddlewareFunc{requireAuth, middleware.AdminOnly()}

	apiGroup := e.Group("/api")
	if deps.Limiter != nil {
		apiGroup.Use(middleware.RateLimit(deps.Limiter, deps.Log))
	}

	// --- User routes ---
	users := apiGroup.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/forgot-password", authHandler.ForgotPassword)
	users.POST("/reset-password/:token", authHandler.ResetPassword)
	users.GET("/profile", userHandler.Profile, requireAuth)
	users.PUT("/profile/:userId", userHandler.UpdateProfile, requireAuth)
	users.GET("/allUsers", userHandler.List, adminOnly...)
	users.GET("/user/:id", userHandler.Get, adminOnly...)
	users.DELETE("/deleteUser/:id", userHandler.Delete, adminOnly...)

	// --- Request routes ---
	requests := apiGroup.Group("/requests")
	requests.POST("/createRequests", requestHandler.Create, middleware.OptionalAuth(deps.AuthService))
	requests.GET("/requests", requestHandler.List, adminOnly...)
	requests.GET("/request/:id", requestHandler.Get, adminOnly...)
	requests.DELETE("/deleteRequests/:id", requestHandler.Delete, adminOnly...)
	requests.GET("/filter/search", requestHandler.Filter, adminOnly...)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	return e
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("academic")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "academic",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func corsConfig(deps Deps) echomiddleware.CORSConfig {
	cfg := echomiddleware.CORSConfig{
		AllowMethods: []string{
			echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
		AllowCredentials: true,
	}
	if deps.AllowAllOrigins {
		cfg.AllowOriginFunc = func(string) (bool, error) { return true, nil }
		return cfg
	}
	cfg.AllowOrigins = slices.Clone(deps.AllowedOrigins)
	return cfg
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
