package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	API       APIConfig
	Storage   StorageConfig
	Search    SearchConfig
	Compare   CompareConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds the local gateway configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// APIConfig holds commerce API configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// SearchConfig holds fuzzy search configuration
type SearchConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// CompareConfig holds comparison-set configuration
type CompareConfig struct {
	Limit int `mapstructure:"limit"`
}

// AnalyticsConfig holds analytics rate limiting configuration
type AnalyticsConfig struct {
	PerMinute int `mapstructure:"per_minute"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront/")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8081")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("api.base_url", "http://127.0.0.1:8000/api")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("storage.dir", "./data")

	v.SetDefault("search.threshold", 0.35)
	v.SetDefault("compare.limit", 3)
	v.SetDefault("analytics.per_minute", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("commerce API base URL is required (set STOREFRONT_API_BASE_URL)")
	}

	if config.Search.Threshold <= 0 || config.Search.Threshold > 1 {
		return fmt.Errorf("search threshold must be in (0, 1], got: %v", config.Search.Threshold)
	}

	if config.Compare.Limit < 1 {
		return fmt.Errorf("compare limit must be at least 1, got: %d", config.Compare.Limit)
	}

	if config.Storage.Dir == "" {
		return fmt.Errorf("storage dir is required (set STOREFRONT_STORAGE_DIR)")
	}

	return nil
}
