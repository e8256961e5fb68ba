package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	pkgConfig "github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/config"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/logger"
)

// ServiceName selects configs/{env}/listing.yaml and the LISTING_ env prefix.
const ServiceName = "listing"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      logger.Config  `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Redis    RedisConfig    `mapstructure:"redis"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Listing  ListingConfig  `mapstructure:"listing"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":                "listing",
		"service.environment":         "development",
		"database.driver":             DriverPostgres,
		"database.port":               5432,
		"database.sslmode":            "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",
		"database.slow_threshold":     "200ms",
		"server.http.port":            8080,
		"server.grpc.port":            9090,
		"server.shutdown_timeout":     "15s",
		"log.level":                   "info",
		"log.format":                  "json",
		"log.output":                  "stdout",
		"jwt.admin_role":              "admin",
		"openai.model":                "gpt-4o-mini",
		"openai.temperature":          0.7,
		"openai.max_retries":          2,
		"listing.credit_cost":         1,
		"catalog.path":                "configs/example/catalog.yaml",
	}
}

// LoadConfig reads the service configuration and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := pkgConfig.Load(ServiceName, &cfg, defaults()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Database.Driver == DriverPostgres && c.Database.Host == "" {
		return fmt.Errorf("invalid configuration: database.host is required for the %s driver", DriverPostgres)
	}
	return nil
}
