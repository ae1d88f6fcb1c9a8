package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/vetpharmacy/inventory-api/docs"
	"github.com/vetpharmacy/inventory-api/internal/api/handler"
	"github.com/vetpharmacy/inventory-api/internal/api/middleware"
	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth       ports.AuthService
	Categories ports.CategoryService
	Products   ports.ProductService
	Users      ports.UserService
	Tokens     ports.TokenVerifier
	Readiness  []handler.Dependency
	Logger     zerolog.Logger
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

type route struct {
	method  string
	path    string
	policy  middleware.Policy
	handler echo.HandlerFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.Recover())
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metrics.Namespace,
		Subsystem:  "http",
		Registerer: registerer,
	}))
	e.Use(middleware.Authenticate(deps.Tokens, deps.Logger))

	for _, r := range routes(deps) {
		e.Add(r.method, r.path, r.handler, middleware.Authorize(r.policy))
	}

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// routes is the access table of the API. Every business route carries an
// explicit policy; Authorize rejects the request before the handler runs.
func routes(deps Dependencies) []route {
	auth := handler.NewAuthHandler(deps.Auth)
	categories := handler.NewCategoryHandler(deps.Categories)
	products := handler.NewProductHandler(deps.Products)
	users := handler.NewUserHandler(deps.Users)
	health := handler.NewHealthHandler()
	ready := handler.NewReadinessHandler(deps.Logger, deps.Readiness...)

	admin := middleware.RoleRestricted(domain.RoleAdmin)

	return []route{
		{http.MethodGet, "/health", middleware.Anonymous, health.Liveness},
		{http.MethodGet, "/health/ready", middleware.Anonymous, ready.Readiness},

		{http.MethodPost, "/auth/login", middleware.Anonymous, auth.Login},

		{http.MethodGet, "/categories", middleware.AnyAuthenticated, categories.List},
		{http.MethodGet, "/categories/:id", middleware.AnyAuthenticated, categories.Get},
		{http.MethodPost, "/categories", admin, categories.Create},
		{http.MethodPut, "/categories/:id", admin, categories.Update},
		{http.MethodDelete, "/categories/:id", admin, categories.Delete},

		{http.MethodGet, "/products", middleware.AnyAuthenticated, products.List},
		{http.MethodGet, "/products/filter", middleware.AnyAuthenticated, products.List},
		{http.MethodGet, "/products/:id", middleware.AnyAuthenticated, products.Get},
		{http.MethodPost, "/products", admin, products.Create},
		{http.MethodPut, "/products/:id", admin, products.Update},
		{http.MethodDelete, "/products/:id", admin, products.Delete},

		{http.MethodGet, "/users", admin, users.List},
		{http.MethodGet, "/users/:id", admin, users.Get},
		{http.MethodPost, "/users", middleware.Anonymous, users.Create},
		{http.MethodPut, "/users/:id", admin, users.Update},
		{http.MethodDelete, "/users/:id", admin, users.Delete},
	}
}

// requestLogger emits one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("trace_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
