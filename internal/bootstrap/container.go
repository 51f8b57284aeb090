package bootstrap

import (
	"context"
	"sync"

	"sneakerculture/internal/adapters/config"
	redisclient "sneakerculture/internal/adapters/redis"
	telegram "sneakerculture/internal/adapters/telegram"
	"sneakerculture/internal/api"
	"sneakerculture/internal/api/health"
	"sneakerculture/internal/services/checkout"
	"sneakerculture/internal/services/receipt"
	"sneakerculture/pkg/errors"
	"sneakerculture/pkg/logger"
	tg "sneakerculture/pkg/telegram"
	"sneakerculture/pkg/telegram/adapters/tgbotapi"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure Layer, nil when REDIS_HOST is unset
	Redis *redisclient.Client

	// External Adapters
	Adapters *Adapters

	// Domain Layer - Services
	Services *Services

	// Application Layer
	Application *Application

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Adapters groups all external adapters
type Adapters struct {
	TelegramBot *tgbotapi.Bot
	Claims      ClaimStore
}

// Services groups all domain services
type Services struct {
	Receipts *receipt.Formatter
	Checkout *checkout.Service
}

// Application groups application layer components
type Application struct {
	HTTPServer      *api.Server
	HealthHandler   *health.Handler
	CommandRegistry *tg.CommandRegistry
	TelegramHandler *telegram.Handler
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Adapters:    &Adapters{},
		Services:    &Services{},
		Application: &Application{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitApplication()
}

// Start starts the HTTP server and the update poller in the background
func (c *Container) Start() error {
	if c.Adapters.TelegramBot == nil || c.Application.HTTPServer == nil {
		return errors.Wrap(errors.ErrInternal, "container is not initialized")
	}

	c.Log.Info("Starting all systems...")

	c.WG.Add(2)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel()
		}
	}()

	go func() {
		defer c.WG.Done()
		if err := c.Adapters.TelegramBot.Start(c.Context); err != nil && c.Context.Err() == nil {
			c.Log.Errorf("Telegram bot stopped: %v", err)
			c.Cancel()
		}
	}()

	c.Log.Info("✓ All systems operational")
	return nil
}

// Done is closed once a component failure or shutdown cancels the container
func (c *Container) Done() <-chan struct{} {
	return c.Context.Done()
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Adapters.TelegramBot,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}
