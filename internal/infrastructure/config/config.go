package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Desktop   DesktopConfig
	Storage   StorageConfig
	Admin     AdminConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// DesktopConfig holds desktop session configuration.
type DesktopConfig struct {
	ViewportWidth   int           `envconfig:"VIEWPORT_WIDTH" default:"1920"`
	ViewportHeight  int           `envconfig:"VIEWPORT_HEIGHT" default:"1080"`
	TaskbarHeight   int           `envconfig:"TASKBAR_HEIGHT" default:"40"`
	PlaylistPath    string        `envconfig:"PLAYLIST_PATH" default:""`
	SeedPath        string        `envconfig:"PROFILE_SEED_PATH" default:""`
	AssetTimeout    time.Duration `envconfig:"ASSET_LOOKUP_TIMEOUT" default:"5s"`
	NotificationTTL time.Duration `envconfig:"NOTIFICATION_TTL" default:"1500ms"`
}

// StorageConfig holds blob and record storage configuration. With no
// remote URL configured the server runs on the local filesystem store.
type StorageConfig struct {
	RemoteURL  string `envconfig:"STORAGE_URL" default:""`
	ServiceKey string `envconfig:"STORAGE_SERVICE_KEY" default:""`
	LocalDir   string `envconfig:"STORAGE_DIR" default:"./data/storage"`
}

// AdminConfig holds the maintenance endpoint configuration. Empty key
// disables the admin surface entirely.
type AdminConfig struct {
	Key string `envconfig:"ADMIN_SETUP_KEY" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Desktop: DesktopConfig{
			ViewportWidth:   1920,
			ViewportHeight:  1080,
			TaskbarHeight:   40,
			AssetTimeout:    5 * time.Second,
			NotificationTTL: 1500 * time.Millisecond,
		},
		Storage: StorageConfig{
			LocalDir: "./data/storage",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
