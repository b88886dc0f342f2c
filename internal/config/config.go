package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process-wide configuration. It is parsed once at startup
// and read-only thereafter; every component receives it (or a slice of it)
// through its constructor.
type Config struct {
	ServerPort int `env:"SERVER_PORT" envDefault:"3000"`

	MongoDBURI      string `env:"MONGODB_URI"`
	MongoDBDatabase string `env:"MONGODB_DATABASE"`

	JWTSecret       string        `env:"JWT_SECRET"`
	JWTIssuer       string        `env:"JWT_ISSUER"       envDefault:"account-api"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"168h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL"   envDefault:"1h"`

	// AppPasswordResetURL is the public base URL the reset link is built
	// from; the reset token is appended as the last path segment.
	AppPasswordResetURL string `env:"APP_PASSWORD_RESET_URL"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	// Argon2 work factor overrides; zero keeps the library defaults.
	HashTimeCost   uint32 `env:"HASH_TIME_COST"   envDefault:"0"`
	HashMemoryCost uint32 `env:"HASH_MEMORY_COST" envDefault:"0"`
}

// Load parses the configuration from environment variables and validates
// that every required variable is present.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks that the configuration is complete. A missing variable is
// a fatal startup error, never a runtime one.
func (c *Config) validate() error {
	if c.MongoDBURI == "" {
		return fmt.Errorf("missing MONGODB_URI environment variable")
	}
	if c.MongoDBDatabase == "" {
		return fmt.Errorf("missing MONGODB_DATABASE environment variable")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.AppPasswordResetURL == "" {
		return fmt.Errorf("missing APP_PASSWORD_RESET_URL environment variable")
	}
	if c.SMTPHost == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.SMTPPort == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.SMTPUsername == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.SMTPPassword == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.SMTPFrom == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
