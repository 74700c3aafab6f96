package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" env-default:"4000"`
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"168h"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	CORSOrigins []string `env:"CORS_ORIGIN" env-separator:","`

	ResendAPIKey  string `env:"RESEND_API_KEY"`
	EmailFrom     string `env:"EMAIL_FROM"`
	EmailTo       string `env:"EMAIL_TO"`
	PublicSiteURL string `env:"PUBLIC_SITE_URL"`

	LeadRateLimit  int           `env:"LEAD_RATE_LIMIT" env-default:"10"`
	LeadRateWindow time.Duration `env:"LEAD_RATE_WINDOW" env-default:"1m"`

	EmailTimeout    time.Duration `env:"EMAIL_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads .env (if present) and the process environment.
// Only DATABASE_URL is mandatory here; the server checks the rest via ValidateServer.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return &cfg, nil
}

func (c *Config) ValidateServer() error {
	required := []struct {
		name  string
		value string
	}{
		{"JWT_SECRET", c.JWTSecret},
		{"ADMIN_USERNAME", c.AdminUsername},
		{"ADMIN_PASSWORD", c.AdminPassword},
		{"RESEND_API_KEY", c.ResendAPIKey},
		{"EMAIL_FROM", c.EmailFrom},
		{"EMAIL_TO", c.EmailTo},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is not set", r.name))
		}
	}
	if len(c.CORSOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ORIGIN is not set"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.LeadRateLimit <= 0 {
		errs = append(errs, errors.New("LEAD_RATE_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
