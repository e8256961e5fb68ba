package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Stripe struct {
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"stripe"`
	Mode string `mapstructure:"mode"`
}

func TestLoad_FileEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\nstripe:\n  secret_key: sk_file\n"), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LISTING_STRIPE_SECRET_KEY", "sk_env")

	var cfg testConfig
	require.NoError(t, Load("listing", &cfg, map[string]interface{}{"mode": "memory"}))

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sk_env", cfg.Stripe.SecretKey)
	assert.Equal(t, "memory", cfg.Mode)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", t.TempDir())

	var cfg testConfig
	err := Load("listing", &cfg, nil)
	assert.Error(t, err)
}
