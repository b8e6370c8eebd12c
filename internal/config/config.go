// Package config provides application configuration loading.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the application settings loaded from the environment or an
// optional config file.
type Config struct {
	Port             string `mapstructure:"PORT"`
	DatabasePath     string `mapstructure:"DATABASE_PATH"`
	SessionSecret    string `mapstructure:"SESSION_SECRET"`
	CookieSecure     bool   `mapstructure:"COOKIE_SECURE"`
	PBKDF2Iterations int    `mapstructure:"PBKDF2_ITERATIONS"`
}

// Load reads configuration from environment variables and, if present, a
// config.yml in the working directory. SESSION_SECRET has no default: the
// session cookies are only as trustworthy as the signing key, so a weak or
// missing one is a startup failure.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The config file is optional; the environment alone is enough.
	_ = v.ReadInConfig()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_PATH", "inkwell.db")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("PBKDF2_ITERATIONS", 600000)
	// Registered with an empty default so AutomaticEnv can bind it; the
	// validation below still rejects the empty value.
	v.SetDefault("SESSION_SECRET", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if cfg.PBKDF2Iterations < 1000 {
		return nil, fmt.Errorf("PBKDF2_ITERATIONS must be at least 1000, got %d", cfg.PBKDF2Iterations)
	}
	return &cfg, nil
}
