package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Application base URL (for OAuth redirects and the widget snippet)
	BaseURL string

	// Storage Configuration
	StoreDriver string // "postgres" or "memory"
	DatabaseUrl string

	// Session Configuration
	SessionDuration time.Duration

	// Google OAuth sign-in
	// In development AUTH_PROVIDER=static skips Google entirely.
	AuthProvider       string // "google" or "static"
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// AI Provider Configuration
	AIProvider       string // "anthropic" or "mock"
	AnthropicAPIKey  string
	AnthropicModel   string
	AIRequestTimeout time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		// Storage defaults to the in-memory store for development
		StoreDriver: getEnv("STORE_DRIVER", "memory"),

		SessionDuration: getEnvDuration("SESSION_DURATION", 7*24*time.Hour),

		AuthProvider:       getEnv("AUTH_PROVIDER", "static"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		// AI provider defaults
		AIProvider:       getEnv("AI_PROVIDER", "mock"),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
		AIRequestTimeout: getEnvDuration("AI_REQUEST_TIMEOUT", 30*time.Second),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Validate storage configuration
	switch cfg.StoreDriver {
	case "postgres":
		cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
		if cfg.DatabaseUrl == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is 'postgres'")
		}
	case "memory":
		// No database; everything lives in process memory.
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be either 'postgres' or 'memory', got: %s", cfg.StoreDriver)
	}

	// Validate auth provider configuration
	if cfg.AuthProvider == "google" {
		if cfg.GoogleClientID == "" {
			return nil, fmt.Errorf("GOOGLE_CLIENT_ID is required when AUTH_PROVIDER is 'google'")
		}
		if cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("GOOGLE_CLIENT_SECRET is required when AUTH_PROVIDER is 'google'")
		}
		if cfg.GoogleRedirectURL == "" {
			cfg.GoogleRedirectURL = cfg.BaseURL + "/auth/google/callback"
		}
	} else if cfg.AuthProvider != "static" {
		return nil, fmt.Errorf("AUTH_PROVIDER must be either 'google' or 'static', got: %s", cfg.AuthProvider)
	}

	// Validate AI provider configuration
	if cfg.AIProvider == "anthropic" {
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is 'anthropic'")
		}
	} else if cfg.AIProvider != "mock" {
		return nil, fmt.Errorf("AI_PROVIDER must be either 'anthropic' or 'mock', got: %s", cfg.AIProvider)
	}

	return cfg, nil
}

// IsProduction reports whether secure cookies and JSON logs should be used.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
