package tgbotapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"sneakerculture/pkg/errors"
	"sneakerculture/pkg/logger"
	"sneakerculture/pkg/telegram"
)

const (
	maxSendAttempts = 3
	maxPollBackoff  = 30 * time.Second
)

// allowedUpdates limits delivery to plain messages, web app data included
var allowedUpdates = []string{"message"}

// botAPI is the part of *tgbotapi.BotAPI the adapter uses
type botAPI interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot represents a Telegram bot that implements telegram.Bot interface.
// Updates are fetched with raw getUpdates calls and decoded into
// telegram.Update, since the library's own types have no web_app_data.
type Bot struct {
	api         botAPI
	log         *logger.Logger
	mu          sync.RWMutex
	running     bool
	stop        chan struct{}
	msgHandler  func(telegram.Update)
	rateLimiter *rate.Limiter
	pollTimeout time.Duration
	startedAt   time.Time
	lastPoll    time.Time

	// observe is called after every Bot API request
	observe func(method string, err error)
}

// Config contains Telegram bot configuration
type Config struct {
	Token          string
	Debug          bool
	PollTimeout    time.Duration // getUpdates long polling timeout
	HTTPTimeout    time.Duration // must exceed PollTimeout
	RateLimitBurst int           // Rate limiter burst (default: 30)
	RateLimitRate  int           // Rate limiter per second (default: 20)

	// Observe, if set, is called after every Bot API request
	Observe func(method string, err error)
}

// NewBot creates a new Telegram bot instance that implements telegram.Bot interface
func NewBot(cfg Config, log *logger.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram bot token is required")
	}

	cfg = withDefaults(cfg)

	// Create HTTP client with timeout
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	// Create bot API with custom client
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	api.Debug = cfg.Debug

	log.Infof("Authorized on account %s", api.Self.UserName)

	return newBot(api, cfg, log), nil
}

func newBot(api botAPI, cfg Config, log *logger.Logger) *Bot {
	cfg = withDefaults(cfg)

	observe := cfg.Observe
	if observe == nil {
		observe = func(string, error) {}
	}

	return &Bot{
		api:         api,
		log:         log.With("component", "telegram_bot"),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRate), cfg.RateLimitBurst),
		pollTimeout: cfg.PollTimeout,
		observe:     observe,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.PollTimeout == 0 {
		cfg.PollTimeout = 25 * time.Second
	}
	if cfg.HTTPTimeout <= cfg.PollTimeout {
		cfg.HTTPTimeout = cfg.PollTimeout + 10*time.Second
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 30
	}
	if cfg.RateLimitRate == 0 {
		cfg.RateLimitRate = 20
	}
	return cfg
}

// Start long-polls for updates until ctx is done or Stop is called
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return errors.New("bot is already running")
	}
	b.running = true
	b.stop = make(chan struct{})
	b.startedAt = time.Now()
	stop := b.stop
	b.mu.Unlock()

	b.log.Infow("Starting to poll for updates", "timeout", b.pollTimeout)

	type pollResult struct {
		updates []telegram.Update
		err     error
	}

	offset := 0
	backoff := time.Second

	for {
		results := make(chan pollResult, 1)
		go func(offset int) {
			updates, err := b.getUpdates(offset)
			results <- pollResult{updates: updates, err: err}
		}(offset)

		var res pollResult
		select {
		case <-ctx.Done():
			b.log.Infow("Stopping bot due to context cancellation")
			b.Stop()
			return ctx.Err()
		case <-stop:
			return nil
		case res = <-results:
		}

		if res.err != nil {
			wait := backoff
			var apiErr *tgbotapi.Error
			if errors.As(res.err, &apiErr) && apiErr.RetryAfter > 0 {
				wait = time.Duration(apiErr.RetryAfter) * time.Second
			} else {
				backoff = min(backoff*2, maxPollBackoff)
			}

			b.log.Warnw("Failed to get updates", "error", res.err, "retry_in", wait)
			if !sleep(ctx, stop, wait) {
				b.Stop()
				return ctx.Err()
			}
			continue
		}

		backoff = time.Second
		b.mu.Lock()
		b.lastPoll = time.Now()
		handler := b.msgHandler
		b.mu.Unlock()

		for _, update := range res.updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message != nil {
				update.Message.ParseCommand()
			}
			if handler != nil {
				go handler(update)
			}
		}
	}
}

func (b *Bot) getUpdates(offset int) ([]telegram.Update, error) {
	params := tgbotapi.Params{}
	params.AddNonZero("offset", offset)
	params.AddNonZero("timeout", int(b.pollTimeout.Seconds()))
	if err := params.AddInterface("allowed_updates", allowedUpdates); err != nil {
		return nil, err
	}

	resp, err := b.api.MakeRequest("getUpdates", params)
	b.observe("getUpdates", err)
	if err != nil {
		return nil, err
	}

	var updates []telegram.Update
	if err := json.Unmarshal(resp.Result, &updates); err != nil {
		return nil, errors.Wrap(err, "decode updates")
	}
	return updates, nil
}

// sleep waits for d and reports false if ctx or stop ended first
func sleep(ctx context.Context, stop <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}

// Stop stops the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return
	}

	close(b.stop)
	b.running = false
	b.log.Infow("Bot stopped")
}

// SetHandler sets the message handler (uses abstracted Update type)
func (b *Bot) SetHandler(handler func(telegram.Update)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgHandler = handler
}

// IsRunning checks if bot is currently running
func (b *Bot) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

// Health fails when polling has not succeeded for three poll windows
func (b *Bot) Health(ctx context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.running {
		return errors.Wrap(errors.ErrUnavailable, "bot is not polling")
	}

	last := b.lastPoll
	if last.IsZero() {
		last = b.startedAt
	}
	if since := time.Since(last); since > 3*b.pollTimeout {
		return errors.Wrapf(errors.ErrUnavailable, "no successful poll for %s", since.Round(time.Second))
	}
	return nil
}

// =============================================================================
// telegram.Bot Interface Implementation
// =============================================================================

// SendMessage sends a plain text message
func (b *Bot) SendMessage(chatID int64, text string) error {
	_, err := b.SendMessageWithOptions(chatID, text, telegram.MessageOptions{})
	return err
}

// SendMessageWithOptions sends message with custom options.
// Flood-control errors are retried after the delay Telegram asks for.
func (b *Bot) SendMessageWithOptions(chatID int64, text string, opts telegram.MessageOptions) (int, error) {
	msg := newMessageConfig(chatID, text, opts)

	var err error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		if waitErr := b.rateLimiter.Wait(context.Background()); waitErr != nil {
			return 0, errors.Wrap(waitErr, "rate limiter error")
		}

		var sent tgbotapi.Message
		sent, err = b.api.Send(msg)
		b.observe("sendMessage", err)
		if err == nil {
			return sent.MessageID, nil
		}

		var apiErr *tgbotapi.Error
		if !errors.As(err, &apiErr) || apiErr.RetryAfter == 0 || attempt == maxSendAttempts {
			break
		}

		b.log.Warnw("Flood control hit, retrying", "chat_id", chatID, "retry_after", apiErr.RetryAfter)
		time.Sleep(time.Duration(apiErr.RetryAfter) * time.Second)
	}

	b.log.Errorw("Failed to send message", "chat_id", chatID, "parse_mode", opts.ParseMode, "error", err)
	return 0, fmt.Errorf("%w: chat %d: %w", errors.ErrDeliveryFailed, chatID, err)
}

// Verify Bot implements telegram.Bot interface at compile time
var _ telegram.Bot = (*Bot)(nil)

// newMessageConfig converts telegram.MessageOptions to a sendMessage request
func newMessageConfig(chatID int64, text string, opts telegram.MessageOptions) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = opts.ParseMode
	msg.DisableWebPagePreview = opts.DisableWebPagePreview
	msg.DisableNotification = opts.DisableNotification

	if opts.ReplyToMessageID > 0 {
		msg.ReplyToMessageID = opts.ReplyToMessageID
	}

	if opts.ReplyKeyboard != nil {
		msg.ReplyMarkup = opts.ReplyKeyboard
	}

	return msg
}
