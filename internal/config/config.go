package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Supabase
	SupabaseURL            string `envconfig:"SUPABASE_URL"`
	SupabasePublishableKey string `envconfig:"SUPABASE_PUBLISHABLE_KEY"`
	SupabaseJWTSecret      string `envconfig:"SUPABASE_JWT_SECRET"`
	SupabaseStorageBucket  string `envconfig:"SUPABASE_STORAGE_BUCKET" default:"surprise_photos"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Draft slot
	RedisURL string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	DraftTTL time.Duration `envconfig:"DRAFT_TTL" default:"168h"`

	// Ephemeral photo blobs
	FileStorePath     string        `envconfig:"FILESTORE_PATH" default:"./data/ephemeral.db"`
	FileStoreMaxBytes int64         `envconfig:"FILESTORE_MAX_BYTES" default:"52428800"`
	FileStoreTTL      time.Duration `envconfig:"FILESTORE_TTL" default:"72h"`

	// Stripe
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`

	// Cron
	CronSecret string `envconfig:"CRON_SECRET"`

	// Session confirmation after sign-in
	SessionConfirmTimeout time.Duration `envconfig:"SESSION_CONFIRM_TIMEOUT" default:"5s"`
	SessionPollInterval   time.Duration `envconfig:"SESSION_POLL_INTERVAL" default:"200ms"`

	// Server
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENVIRONMENT" default:"development"`
	PublicBaseURL      string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:3000"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Logging
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				log.Printf("Warning: could not load %s: %v", envFile, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.FileStoreMaxBytes <= 0 {
		return fmt.Errorf("FILESTORE_MAX_BYTES must be positive")
	}
	return nil
}

// AllowedOrigins splits CORSAllowedOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
