// Package config loads service configuration files with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default directory holding configs/{env}/{service}.yaml.
const configDir = "configs"

// Load reads the configuration of serviceName and decodes it into out.
//
// The file is looked up at CONFIG_PATH when set (a file or a directory), else
// at configs/{APP_ENV}/{service}.yaml, falling back to configs/example. Every
// key can be overridden by an environment variable named
// {SERVICE}_{KEY} with dots replaced by underscores.
func Load(serviceName string, out interface{}, defaults map[string]interface{}) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configPath := os.Getenv("CONFIG_PATH")
	if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
		v.SetConfigFile(configPath)
	} else {
		if configPath == "" {
			configPath = filepath.Join(configDir, env)
		}
		v.SetConfigName(serviceName)
		v.AddConfigPath(configPath)
		v.AddConfigPath(filepath.Join(configDir, "example"))
	}

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config for %s: %w", serviceName, err)
	}

	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range v.AllKeys() {
		v.Set(key, v.Get(key))
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to decode config for %s: %w", serviceName, err)
	}
	return nil
}
