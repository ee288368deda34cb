package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "venuehub.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "24h"
	defaultServiceFeePercent = "5"
	defaultExpiryInterval    = "15m"
	defaultPaymentWindow     = "24h"
	defaultWarningWindow     = "6h"
	defaultSchedulerEnabled  = "true"
	defaultSMTPPort          = "587"
	defaultSMTPFrom          = "no-reply@venuehub.local"
	defaultLogLevel          = "info"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	LogLevel    string

	JWTSecret     string
	JWTTTL        time.Duration
	InternalToken string

	ServiceFeePercent int

	Expiry ExpiryConfig
	SMTP   SMTPConfig

	RedisURL           string
	CORSAllowedOrigins []string
}

type ExpiryConfig struct {
	Enabled bool
	// Interval between ticks; ignored when Cron is set.
	Interval      time.Duration
	Cron          string
	PaymentWindow time.Duration
	WarningWindow time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled is false when no SMTP host is configured; mail is then only logged.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.InternalToken = strings.TrimSpace(os.Getenv("INTERNAL_TOKEN"))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	cfg.ServiceFeePercent, err = parseIntEnv("SERVICE_FEE_PERCENT", defaultServiceFeePercent)
	if err != nil {
		return nil, err
	}

	cfg.Expiry.Enabled = parseBoolEnv("EXPIRY_SCHEDULER_ENABLED", defaultSchedulerEnabled)
	cfg.Expiry.Cron = strings.TrimSpace(os.Getenv("EXPIRY_CRON"))
	cfg.Expiry.Interval, err = parseDurationEnv("EXPIRY_INTERVAL", defaultExpiryInterval)
	if err != nil {
		return nil, err
	}
	cfg.Expiry.PaymentWindow, err = parseDurationEnv("PAYMENT_WINDOW", defaultPaymentWindow)
	if err != nil {
		return nil, err
	}
	cfg.Expiry.WarningWindow, err = parseDurationEnv("EXPIRY_WARNING_WINDOW", defaultWarningWindow)
	if err != nil {
		return nil, err
	}

	cfg.SMTP.Host = strings.TrimSpace(os.Getenv("SMTP_HOST"))
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = strings.TrimSpace(getEnv("SMTP_FROM", defaultSMTPFrom))
	cfg.SMTP.Port, err = parseIntEnv("SMTP_PORT", defaultSMTPPort)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ServiceFeePercent < 0 || cfg.ServiceFeePercent > 100 {
		return fmt.Errorf("SERVICE_FEE_PERCENT must be between 0 and 100")
	}
	if cfg.Expiry.Interval <= 0 {
		return fmt.Errorf("EXPIRY_INTERVAL must be > 0")
	}
	if cfg.Expiry.PaymentWindow <= 0 {
		return fmt.Errorf("PAYMENT_WINDOW must be > 0")
	}
	if cfg.Expiry.WarningWindow <= 0 || cfg.Expiry.WarningWindow >= cfg.Expiry.PaymentWindow {
		return fmt.Errorf("EXPIRY_WARNING_WINDOW must be > 0 and shorter than PAYMENT_WINDOW")
	}
	if cfg.Expiry.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Expiry.Cron); err != nil {
			return fmt.Errorf("invalid EXPIRY_CRON %q: %w", cfg.Expiry.Cron, err)
		}
	}
	if cfg.SMTP.Port <= 0 {
		return fmt.Errorf("SMTP_PORT must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.InternalToken == "" {
			return fmt.Errorf("in prod/release INTERNAL_TOKEN must be set")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool { return isProdLike(c.AppEnv) }

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
