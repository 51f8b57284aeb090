package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sneakerculture/pkg/errors"
)

type Config struct {
	App           AppConfig
	Telegram      TelegramConfig
	Orders        OrdersConfig
	Redis         RedisConfig
	HTTP          HTTPConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"sneakerculture_bot"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type TelegramConfig struct {
	BotToken    string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	WebAppURL   string        `envconfig:"WEBAPP_URL" required:"true"`
	AdminChatID int64         `envconfig:"ADMIN_CHAT_ID" required:"true"`
	PollTimeout time.Duration `envconfig:"TELEGRAM_POLL_TIMEOUT" default:"25s"`
	RateLimit   int           `envconfig:"TELEGRAM_RATE_LIMIT" default:"20"` // messages per second
}

type OrdersConfig struct {
	// ReceiptTimezone is the IANA zone order dates are printed in
	ReceiptTimezone string        `envconfig:"RECEIPT_TIMEZONE" default:"Europe/Moscow"`
	DedupTTL        time.Duration `envconfig:"ORDER_DEDUP_TTL" default:"24h"`
}

// Location resolves ReceiptTimezone
func (c OrdersConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReceiptTimezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid RECEIPT_TIMEZONE %q", c.ReceiptTimezone)
	}
	return loc, nil
}

// RedisConfig is optional: without REDIS_HOST duplicate orders are tracked in memory
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HTTPConfig is the server for health probes and metrics
type HTTPConfig struct {
	Addr string `envconfig:"HTTP_ADDR" default:":9090"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
