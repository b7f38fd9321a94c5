// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name read by this package.
const EnvPrefix = "PILOTDESK_"

// Config holds the server configuration.
type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:3000"`
	DBPath      string `env:"DB_PATH" envDefault:"data/applications.db"`
	DatabaseURL string `env:"DATABASE_URL"` // Selects PostgreSQL instead of SQLite when set.

	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"` // bcrypt; wins over AdminPassword.

	MailFrom       string `env:"MAIL_FROM"`
	MailgunAPIKey  string `env:"MAILGUN_API_KEY"`
	MailgunDomain  string `env:"MAILGUN_DOMAIN"`
	MailgunBaseURL string `env:"MAILGUN_BASE_URL" envDefault:"https://api.mailgun.net/v3"`
	MailOutboxDir  string `env:"MAIL_OUTBOX_DIR"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	DefaultLang    string   `env:"DEFAULT_LANG" envDefault:"ru"`
}

// UsePostgres reports whether submissions are stored in PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// Load reads PILOTDESK_* variables and validates the result. An admin
// password (plaintext or bcrypt hash) is required.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, errors.New(EnvPrefix + "ADMIN_PASSWORD or " + EnvPrefix + "ADMIN_PASSWORD_HASH is required")
	}
	if cfg.ListenAddr == "" {
		return nil, errors.New(EnvPrefix + "LISTEN_ADDR must not be empty")
	}
	if err := validateLang(cfg.DefaultLang); err != nil {
		return nil, fmt.Errorf("%sDEFAULT_LANG: %w", EnvPrefix, err)
	}

	return &cfg, nil
}

// ClientConfig holds the pilotctl configuration. Command-line flags override
// these values.
type ClientConfig struct {
	Endpoint  string        `env:"ENDPOINT"` // Base URL of the applications service; empty means not configured.
	CachePath string        `env:"CACHE_PATH"`
	Lang      string        `env:"LANG"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// LoadClient reads the client variables.
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a client configuration after flags have been applied.
func (c *ClientConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%sTIMEOUT must be positive, got %s", EnvPrefix, c.Timeout)
	}
	if c.Endpoint != "" {
		u, err := url.Parse(c.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%sENDPOINT %q is not an http(s) URL", EnvPrefix, c.Endpoint)
		}
	}
	return nil
}

func validateLang(lang string) error {
	switch lang {
	case "ru", "en":
		return nil
	default:
		return fmt.Errorf("unsupported language %q", lang)
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
