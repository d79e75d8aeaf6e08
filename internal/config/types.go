package config

import (
	"github.com/penlight/core/internal/pkg/mail"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int         `yaml:"port"`
	DSN            string      `yaml:"dsn"` // MySQL DSN
	RedisURL       string      `yaml:"redis_url"`
	Env            string      `yaml:"env"` // "development" | "production"
	JWTSecret      string      `yaml:"jwt_secret"`
	BaseURL        string      `yaml:"base_url"` // public URL used in verification links
	AllowedOrigins []string    `yaml:"allowed_origins"`
	Cache          CacheConfig `yaml:"cache"`
	Throttle       Throttle    `yaml:"throttle"`
	Mail           mail.Config `yaml:"mail"`
}

// CacheConfig tunes the in-process query cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
	Capacity   int `yaml:"capacity"`
}

// Throttle tunes the process-wide store-call limiter. Defaults to
// 100 requests per 5-minute window.
type Throttle struct {
	WindowSeconds int `yaml:"window_seconds"`
	Limit         int `yaml:"limit"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }
