// Package config loads TeamHome settings from the environment and an
// optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development signing secret. It must be replaced
// in production.
const DefaultJWTSecret = "teamhome-dev-secret-change-in-production"

// Event retention policies applied when a team is deleted
const (
	RetainEvents = "retain"
	PurgeEvents  = "purge"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port    string `mapstructure:"PORT"`
	Env     string `mapstructure:"APP_ENV"`
	BaseURL string `mapstructure:"BASE_URL"`

	// CORSOrigins is a comma separated list of browser origins
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// DBDriver is "sqlite" or "postgres"; DatabaseURL is the file path or DSN.
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	// SendGridAPIKey enables invitation email; without it mail is only logged.
	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	MailDomain        string `mapstructure:"MAIL_DOMAIN"`
	NotifyWorkers     int    `mapstructure:"NOTIFY_WORKERS"`
	NotifyMaxAttempts int    `mapstructure:"NOTIFY_MAX_ATTEMPTS"`

	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`
	PremiumCurrency string `mapstructure:"PREMIUM_CURRENCY"`

	// Auth0 login is enabled when domain and client id are set.
	Auth0Domain       string `mapstructure:"AUTH0_DOMAIN"`
	Auth0ClientID     string `mapstructure:"AUTH0_CLIENT_ID"`
	Auth0ClientSecret string `mapstructure:"AUTH0_CLIENT_SECRET"`

	// EventRetention decides whether a team's events survive its deletion.
	EventRetention        string        `mapstructure:"EVENT_RETENTION"`
	DeletionSweepInterval time.Duration `mapstructure:"DELETION_SWEEP_INTERVAL"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore missing .env

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "teamhome.db")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_DOMAIN", "team.home")
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_MAX_ATTEMPTS", 3)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("PREMIUM_CURRENCY", "usd")
	v.SetDefault("AUTH0_DOMAIN", "")
	v.SetDefault("AUTH0_CLIENT_ID", "")
	v.SetDefault("AUTH0_CLIENT_SECRET", "")
	v.SetDefault("EVENT_RETENTION", RetainEvents)
	v.SetDefault("DELETION_SWEEP_INTERVAL", "1m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values and combinations
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: PORT must be set")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.EventRetention {
	case RetainEvents, PurgeEvents:
	default:
		return fmt.Errorf("config: EVENT_RETENTION must be %q or %q", RetainEvents, PurgeEvents)
	}
	if c.NotifyWorkers <= 0 {
		return errors.New("config: NOTIFY_WORKERS must be positive")
	}
	if c.NotifyMaxAttempts <= 0 {
		return errors.New("config: NOTIFY_MAX_ATTEMPTS must be positive")
	}
	if c.DeletionSweepInterval <= 0 {
		return errors.New("config: DELETION_SWEEP_INTERVAL must be positive")
	}
	if c.Env == "production" && c.JWTSecret == DefaultJWTSecret {
		return errors.New("config: JWT_SECRET must be set when APP_ENV=production")
	}
	return nil
}

// Auth0Enabled reports whether Auth0 login is configured
func (c *Config) Auth0Enabled() bool {
	return c.Auth0Domain != "" && c.Auth0ClientID != ""
}

// Auth0Issuer returns the OIDC issuer URL of the Auth0 tenant
func (c *Config) Auth0Issuer() string {
	return "https://" + c.Auth0Domain + "/"
}

// PurgeEventsOnDelete reports whether team deletion removes the team's events
func (c *Config) PurgeEventsOnDelete() bool {
	return c.EventRetention == PurgeEvents
}

// AllowedOrigins splits CORSOrigins, dropping blanks
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// ReturnOrigins are the origins a login may redirect back to: the
// service's own BaseURL plus the CORS origins
func (c *Config) ReturnOrigins() []string {
	origins := c.AllowedOrigins()
	if c.BaseURL != "" {
		origins = append(origins, strings.TrimRight(c.BaseURL, "/"))
	}
	return origins
}
