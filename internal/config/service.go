package config

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	ClientURL   string `mapstructure:"client_url"`
}

// JWTConfig verifies tokens issued by the auth provider
type JWTConfig struct {
	Secret    string `mapstructure:"secret" validate:"required"`
	AdminRole string `mapstructure:"admin_role"`
}

type StripeConfig struct {
	SecretKey       string `mapstructure:"secret_key"`
	WebhookSecret   string `mapstructure:"webhook_secret" validate:"required"`
	SuccessURL      string `mapstructure:"success_url"`
	CancelURL       string `mapstructure:"cancel_url"`
	PortalReturnURL string `mapstructure:"portal_return_url"`
}

// RedisConfig enables billing notifications when Addr is set
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxRetries  int     `mapstructure:"max_retries"`
}

type ListingConfig struct {
	CreditCost int64 `mapstructure:"credit_cost" validate:"gte=0"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}
