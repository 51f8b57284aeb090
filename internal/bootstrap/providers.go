package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"

	"sneakerculture/internal/adapters/config"
	errnoop "sneakerculture/internal/adapters/errors/noop"
	"sneakerculture/internal/adapters/errors/sentry"
	redisclient "sneakerculture/internal/adapters/redis"
	telegram "sneakerculture/internal/adapters/telegram"
	"sneakerculture/internal/api"
	"sneakerculture/internal/api/health"
	"sneakerculture/internal/metrics"
	"sneakerculture/internal/services/checkout"
	"sneakerculture/internal/services/receipt"
	"sneakerculture/pkg/errors"
	"sneakerculture/pkg/logger"
	"sneakerculture/pkg/markdown"
	tg "sneakerculture/pkg/telegram"
	"sneakerculture/pkg/telegram/adapters/tgbotapi"
	"sneakerculture/pkg/templates"
)

// ClaimStore guards against duplicate orders and reports how many are held
type ClaimStore interface {
	checkout.Deduplicator
	metrics.ClaimCounter
}

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(logger.Options{
		Level: cfg.App.LogLevel,
		Env:   cfg.App.Env,
		File:  cfg.App.LogFile,
	}); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)

	metrics.Init()
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects Redis when configured
func (c *Container) MustInitInfrastructure() {
	if !c.Config.Redis.Enabled() {
		c.Log.Info("Redis not configured, duplicate orders are tracked in memory")
		return
	}

	c.Log.Infow("Connecting to Redis...", "addr", c.Config.Redis.Addr())
	client, err := redisclient.NewClient(c.Config.Redis)
	if err != nil {
		c.Log.Fatalf("failed to connect redis: %v", err)
	}
	c.Redis = client
	c.Log.Info("✓ Redis connected")
}

// ========================================
// Phase 3: External Adapters
// ========================================

// MustInitAdapters creates the Telegram bot and the duplicate order guard
func (c *Container) MustInitAdapters() {
	c.Adapters.Claims = provideClaimStore(c.Redis)
	prometheus.MustRegister(metrics.NewCustomCollector(c.Log, c.Adapters.Claims))

	bot, err := tgbotapi.NewBot(tgbotapi.Config{
		Token:         c.Config.Telegram.BotToken,
		Debug:         c.Config.App.Debug,
		PollTimeout:   c.Config.Telegram.PollTimeout,
		RateLimitRate: c.Config.Telegram.RateLimit,
		Observe:       metrics.RecordTelegramCall,
	}, c.Log)
	if err != nil {
		c.Log.Fatalf("failed to create telegram bot: %v", err)
	}
	c.Adapters.TelegramBot = bot

	c.Log.Info("✓ Adapters initialized")
}

// ========================================
// Phase 4: Domain Services
// ========================================

// MustInitServices wires receipt rendering and checkout
func (c *Container) MustInitServices() {
	loc, err := c.Config.Orders.Location()
	if err != nil {
		c.Log.Fatalf("failed to load receipt timezone: %v", err)
	}

	c.Services.Receipts = receipt.NewFormatter(markdown.Default(), templates.Get(), loc)
	c.Services.Checkout = checkout.NewService(
		c.Adapters.TelegramBot,
		c.Services.Receipts,
		c.Adapters.Claims,
		c.ErrorTracker,
		checkout.Config{
			AdminChatID: c.Config.Telegram.AdminChatID,
			DedupTTL:    c.Config.Orders.DedupTTL,
		},
		c.Log,
	)

	c.Log.Infow("✓ Services initialized",
		"receipt_timezone", loc.String(),
		"templates", templates.Get().List(),
	)
}

// ========================================
// Phase 5: Application Layer
// ========================================

// MustInitApplication registers bot commands and the operations HTTP server
func (c *Container) MustInitApplication() {
	c.Application.CommandRegistry = provideCommandRegistry(c.Adapters.TelegramBot, c.Log)
	c.Application.TelegramHandler = telegram.NewHandler(
		c.Adapters.TelegramBot,
		c.Application.CommandRegistry,
		c.Services.Checkout,
		c.Config.Telegram.WebAppURL,
		c.Log,
	)
	c.Adapters.TelegramBot.SetHandler(c.Application.TelegramHandler.HandleUpdate)

	c.Application.HealthHandler = health.New(c.Log, c.Config.App.Name, c.Config.App.Version)
	c.Application.HealthHandler.AddCheck("telegram", c.Adapters.TelegramBot.Health)
	if c.Redis != nil {
		c.Application.HealthHandler.AddCheck("redis", c.Redis.Health)
	}

	c.Application.HTTPServer = api.NewServer(api.ServerConfig{
		Addr:        c.Config.HTTP.Addr,
		ServiceName: c.Config.App.Name,
		Version:     c.Config.App.Version,
	}, c.Application.HealthHandler, c.Log)

	c.Log.Info("✓ Application layer initialized")
}

// ========================================
// Helper Provider Functions
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("✓ Error tracking initialized (Sentry)")
	return tracker
}

func provideClaimStore(redisClient *redisclient.Client) ClaimStore {
	if redisClient != nil {
		return redisClient
	}
	return checkout.NewMemoryDeduplicator()
}

func provideCommandRegistry(bot tg.Bot, log *logger.Logger) *tg.CommandRegistry {
	registry := tg.NewCommandRegistry(bot, log)
	registry.Use(tg.RecoveryMiddleware(log))
	registry.Use(tg.LoggingMiddleware(log))
	registry.Use(tg.MetricsMiddleware(metrics.RecordCommand))
	return registry
}
