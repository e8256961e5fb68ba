package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	HTTP            HTTPConfig    `mapstructure:"http"`
	GRPC            GRPCConfig    `mapstructure:"grpc"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type HTTPConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port" validate:"gt=0"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type GRPCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gt=0"`
}

func (c GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
