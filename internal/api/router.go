package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/finscope/estimates-api/docs"
	"github.com/finscope/estimates-api/internal/api/handler"
	"github.com/finscope/estimates-api/internal/api/middleware"
	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth      ports.AuthService
	Estimates ports.EstimateService
	Market    ports.MarketDataProvider
	Probes    []ports.DependencyProbe

	// StaticDir holds the built single-page client. Empty disables it.
	StaticDir string

	Logger zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "estimates",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper:    func(c echo.Context) bool { return c.Path() == "/metrics" },
		StatusCodeResolver: func(c echo.Context, err error) int {
			if err == nil {
				return c.Response().Status
			}
			return statusOf(err)
		},
	}))

	requireAuth := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/token", authHandler.Token)
	e.GET("/api/user", authHandler.CurrentUser, requireAuth)
	e.POST("/api/logout", authHandler.Logout)

	// --- Market data (public) ---
	marketHandler := handler.NewMarketHandler(deps.Market)
	stock := e.Group("/api/stock/:ticker")
	stock.GET("", marketHandler.Quote)
	stock.GET("/analyst", marketHandler.Analyst)
	stock.GET("/earnings", marketHandler.Earnings)
	stock.GET("/revenue", marketHandler.Revenue)
	stock.GET("/growth", marketHandler.Growth)
	e.GET("/api/search", marketHandler.Search)

	// --- User estimates (authenticated, owner-scoped) ---
	estimateHandler := handler.NewEstimateHandler(deps.Estimates)
	for _, kind := range domain.EstimateKinds() {
		path := "/api/estimates/:ticker/" + string(kind)
		e.POST(path, estimateHandler.Save(kind), requireAuth)
		e.GET(path, estimateHandler.Get(kind), requireAuth)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Logger, deps.Probes...)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Single-page client ---
	if deps.StaticDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:    deps.StaticDir,
			Index:   "index.html",
			HTML5:   true,
			Skipper: skipNonClient,
		}))
	}

	return e
}

var serverPrefixes = []string{"/api", "/health", "/metrics", "/swagger"}

func skipNonClient(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range serverPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
