package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/config"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/infrastructure/database"
	grpcServer "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/infrastructure/grpc"
	httpServer "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/infrastructure/http"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/infrastructure/provider/openai"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/infrastructure/provider/stripe"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/logger"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/messaging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	prices, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLogger.Fatal("Failed to load price catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}
	zapLogger.Info("Price catalog loaded", zap.Int("prices", len(prices.Prices)))

	var (
		repos  *database.Repositories
		health func(ctx context.Context) error
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		zapLogger.Warn("Using in-memory storage, data is lost on restart")
		repos = database.NewMemoryRepositories()
	default:
		db, err := database.NewConnection(&cfg.Database, cfg.Log.Development, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer closeDatabase(db, zapLogger)

		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		repos = database.NewRepositories(db, zapLogger)
		health = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	publisher := newPublisher(cfg.Redis, zapLogger)
	defer func() {
		if err := publisher.Close(); err != nil {
			zapLogger.Error("Failed to close publisher", zap.Error(err))
		}
	}()

	gateway := stripe.NewGateway(cfg.Stripe.SecretKey, zapLogger)
	generator := openai.NewGenerator(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		BaseURL:     cfg.OpenAI.BaseURL,
		Temperature: cfg.OpenAI.Temperature,
		MaxRetries:  cfg.OpenAI.MaxRetries,
	}, zapLogger)

	services := httpServer.Services{
		Translator: stripe.NewTranslator(cfg.Stripe.WebhookSecret, zapLogger),
		Engine:     usecase.NewReconciliationEngine(repos.UnitOfWork, prices, publisher, zapLogger),
		Projector:  usecase.NewBalanceProjector(repos.UnitOfWork, zapLogger),
		Checkout: usecase.NewCheckoutService(repos.UnitOfWork, prices, gateway, usecase.CheckoutURLs{
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
			PortalURL:  cfg.Stripe.PortalReturnURL,
		}, zapLogger),
		Listings: usecase.NewListingService(repos.UnitOfWork, generator, cfg.Listing.CreditCost, zapLogger),
		Health:   health,
	}

	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, services)

	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()
	grpcSrv.SetServing(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")
	grpcSrv.SetServing(false)

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}

// newPublisher connects to Redis when an address is configured. A missing or
// unreachable broker disables billing notifications.
func newPublisher(cfg config.RedisConfig, log *zap.Logger) messaging.Publisher {
	if cfg.Addr == "" {
		log.Info("Redis not configured, billing notifications disabled")
		return messaging.NopPublisher{}
	}
	client, err := messaging.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		log.Warn("Redis unavailable, billing notifications disabled", zap.Error(err))
		return messaging.NopPublisher{}
	}
	return client
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if err := database.Close(db, log); err != nil {
		log.Error("Failed to close database connection", zap.Error(err))
	}
}
