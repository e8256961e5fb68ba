// Command check-catalog compares the price catalog with the prices configured
// in Stripe and exits non-zero when they disagree.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/config"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/infrastructure/provider/stripe"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/logger"
	"go.uber.org/zap"
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gateway := stripe.NewGateway(cfg.Stripe.SecretKey, zapLogger)
	drifts, err := gateway.CheckCatalog(ctx, prices)
	if err != nil {
		zapLogger.Fatal("Failed to check catalog against Stripe", zap.Error(err))
	}

	for _, d := range drifts {
		zapLogger.Warn("Catalog drift",
			zap.String("price_id", d.PriceID),
			zap.String("problem", d.Problem))
	}

	zapLogger.Info("Catalog check completed",
		zap.Int("prices", len(prices.Prices)),
		zap.Int("drifts", len(drifts)))

	if len(drifts) > 0 {
		_ = zapLogger.Sync()
		os.Exit(1)
	}
}
