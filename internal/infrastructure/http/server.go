package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/adapter/handler/http"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/config"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/middleware/auth"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/logger"
	"go.uber.org/zap"
)

// Services are the use cases the HTTP surface exposes.
type Services struct {
	Translator handlers.EventTranslator
	Engine     *usecase.ReconciliationEngine
	Projector  *usecase.BalanceProjector
	Checkout   *usecase.CheckoutService
	Listings   *usecase.ListingService
	// Health reports whether the storage backend is reachable.
	Health func(ctx context.Context) error
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services Services
}

func NewServer(cfg *config.Config, log *zap.Logger, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	logger.WithEchoErrorHandler(e, log)

	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins(cfg),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	s := &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		services: services,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Addr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.health)

	webhookHandler := handlers.NewWebhookHandler(s.logger, s.services.Translator, s.services.Engine)
	creditHandler := handlers.NewCreditHandler(s.logger, s.services.Projector)
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, s.services.Checkout)
	listingHandler := handlers.NewListingHandler(s.logger, s.services.Listings)
	adminHandler := handlers.NewAdminHandler(s.logger, s.services.Projector, s.services.Engine)

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
	}

	// Webhook route (outside API versioning)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)

	v1 := s.echo.Group("/api/v1")

	// Public routes
	v1.GET("/plans", checkoutHandler.GetPlans)

	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	protected.GET("/credits", creditHandler.GetBalance)
	protected.GET("/credits/transactions", creditHandler.GetTransactions)
	protected.GET("/profile", creditHandler.GetProfile)
	protected.GET("/payments", creditHandler.GetPayments)

	protected.POST("/checkout", checkoutHandler.CreateCheckout)
	protected.POST("/portal", checkoutHandler.CreatePortal)

	protected.POST("/listings", listingHandler.CreateListing)
	protected.GET("/listings", listingHandler.GetListings)

	admin := protected.Group("/admin", auth.RequireRole(adminRole(s.config), s.logger))
	admin.PUT("/users/:userID/balance", adminHandler.SetBalance)
	admin.PUT("/users/:userID/plan", adminHandler.OverridePlan)
	admin.GET("/events/:eventID", adminHandler.GetEvent)
}

func (s *Server) health(c echo.Context) error {
	status := http.StatusOK
	state := "healthy"
	if s.services.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.services.Health(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			status = http.StatusServiceUnavailable
			state = "unhealthy"
		}
	}
	return c.JSON(status, map[string]string{
		"status":  state,
		"service": s.config.Service.Name,
	})
}

func allowOrigins(cfg *config.Config) []string {
	if len(cfg.Server.HTTP.AllowOrigins) > 0 {
		return cfg.Server.HTTP.AllowOrigins
	}
	if cfg.Service.ClientURL != "" {
		return []string{cfg.Service.ClientURL}
	}
	return []string{"*"}
}

func adminRole(cfg *config.Config) string {
	if cfg.JWT.AdminRole == "" {
		return "admin"
	}
	return cfg.JWT.AdminRole
}
