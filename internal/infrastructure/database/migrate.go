package database

import (
	"fmt"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// enumTypes must exist before AutoMigrate references them.
var enumTypes = []struct {
	name   string
	values string
}{
	{"ledger_reason", `'purchase', 'subscription_grant', 'subscription_renewal', 'admin_adjustment', 'correction', 'usage', 'refund'`},
	{"plan_tier", `'free', 'starter', 'premium'`},
	{"plan_status", `'none', 'active', 'past_due', 'canceled'`},
}

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.BillingEventRecord{},
		&model.LedgerEntry{},
		&model.Profile{},
		&model.Payment{},
		&model.Listing{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomTypes creates custom PostgreSQL types
func createCustomTypes(db *gorm.DB) error {
	for _, enum := range enumTypes {
		var exists bool
		if err := db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = ?)`, enum.name).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check type %s: %w", enum.name, err)
		}
		if exists {
			continue
		}
		if err := db.Exec(fmt.Sprintf(`CREATE TYPE %s AS ENUM (%s)`, enum.name, enum.values)).Error; err != nil {
			return fmt.Errorf("failed to create type %s: %w", enum.name, err)
		}
	}
	return nil
}

// createCustomIndexes creates indexes GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_payments_provider_ref ON payments (provider_ref)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_active_plan ON profiles (plan_tier) WHERE plan_status = 'active'`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
