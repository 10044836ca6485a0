package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment        string        `envconfig:"APP_ENV" default:"development"`
	Port               string        `envconfig:"PORT" default:"8080"`
	DatabaseURL        string        `envconfig:"DATABASE_URL" required:"true"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimit          int           `envconfig:"RATE_LIMIT" default:"10"`
	RateWindow         time.Duration `envconfig:"RATE_WINDOW" default:"60s"`
	RateSweepInterval  time.Duration `envconfig:"RATE_SWEEP_INTERVAL" default:"60s"`

	MailchimpAPIKey       string  `envconfig:"MAILCHIMP_API_KEY"`
	MailchimpAudienceID   string  `envconfig:"MAILCHIMP_AUDIENCE_ID"`
	MailchimpServerPrefix string  `envconfig:"MAILCHIMP_SERVER_PREFIX" default:"us1"`
	MailchimpRatePerSec   float64 `envconfig:"MAILCHIMP_RATE_PER_SEC" default:"10"`

	MailHost   string `envconfig:"MAIL_HOST"`
	MailPort   int    `envconfig:"MAIL_PORT" default:"587"`
	MailUser   string `envconfig:"MAIL_USER"`
	MailPass   string `envconfig:"MAIL_PASS"`
	MailFrom   string `envconfig:"MAIL_FROM" default:"Spinnata Notifications <onboarding@spinnata.com>"`
	OwnerEmail string `envconfig:"OWNER_EMAIL"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	// .env é opcional: em produção tudo vem do ambiente
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be positive, got %d", cfg.RateLimit)
	}
	if cfg.RateWindow <= 0 {
		return nil, fmt.Errorf("RATE_WINDOW must be positive, got %s", cfg.RateWindow)
	}

	return &cfg, nil
}

func (c *Config) MailchimpEnabled() bool {
	return strings.TrimSpace(c.MailchimpAPIKey) != "" && strings.TrimSpace(c.MailchimpAudienceID) != ""
}

func (c *Config) SMTPEnabled() bool {
	return strings.TrimSpace(c.MailHost) != "" && strings.TrimSpace(c.OwnerEmail) != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
