package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
	Port   string `envconfig:"PORT" default:"5000"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	ClientURL string `envconfig:"CLIENT_URL" default:"http://localhost:5173"`

	RabbitMQURL string `envconfig:"RABBITMQ_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitDevMax int           `envconfig:"RATE_LIMIT_DEV_MAX" default:"5000"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`

	SMTPHost    string `envconfig:"SMTP_HOST"`
	SMTPPort    int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"SMTP_USER"`
	SMTPPass    string `envconfig:"SMTP_PASS"`
	MailFrom    string `envconfig:"MAIL_FROM" default:"no-reply@leadmanager.local"`
	NotifyEmail string `envconfig:"NOTIFY_EMAIL"`

	ExportMaxRows        int           `envconfig:"EXPORT_MAX_ROWS" default:"10000"`
	GaugeRefreshInterval time.Duration `envconfig:"GAUGE_REFRESH_INTERVAL" default:"1m"`
	AnalyticsTimezone    string        `envconfig:"ANALYTICS_TIMEZONE" default:"UTC"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ExportMaxRows < 1 {
		return fmt.Errorf("EXPORT_MAX_ROWS must be positive")
	}
	if _, err := time.LoadLocation(c.AnalyticsTimezone); err != nil {
		return fmt.Errorf("invalid ANALYTICS_TIMEZONE: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// EffectiveRateLimit is the per-window request budget for the current
// environment.
func (c *Config) EffectiveRateLimit() int {
	if c.IsProduction() {
		return c.RateLimitMax
	}
	return c.RateLimitDevMax
}

// MailEnabled reports whether new-lead notifications can be sent.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.NotifyEmail != ""
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AnalyticsTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
