package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int
	DatabaseURL     string
	ShutdownTimeout time.Duration
}

// NewServerConfig reads server settings from the environment.
// DATABASE_URL is required; PORT defaults to 8080.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	cfg := &ServerConfig{
		Port:            8080,
		DatabaseURL:     databaseURL,
		ShutdownTimeout: 10 * time.Second,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %v", err)
		}
		cfg.ShutdownTimeout = d
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be in [1,65535], got: %d", cfg.Port)
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got: %v", cfg.ShutdownTimeout)
	}

	return cfg, nil
}
