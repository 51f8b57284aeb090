package checkout

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"sneakerculture/internal/domain/order"
	"sneakerculture/internal/metrics"
	"sneakerculture/internal/services/receipt"
	"sneakerculture/pkg/errors"
	"sneakerculture/pkg/logger"
	"sneakerculture/pkg/telegram"
)

// Replies sent to the customer as plain text
const (
	ReplyInvalidPayload = "❌ Ошибка обработки данных заказа, пожалуйста, попробуйте еще раз"
	ReplyFailure        = "❌ Произошла ошибка при обработке вашего заказа, пожалуйста, попробуйте еще раз или свяжитесь с поддержкой"
)

const (
	recipientAdmin    = "admin"
	recipientCustomer = "customer"
)

// Config holds checkout settings
type Config struct {
	AdminChatID int64
	DedupTTL    time.Duration
}

// Service turns web app orders into receipts for the shop admin and the customer
type Service struct {
	bot       telegram.Bot
	formatter *receipt.Formatter
	dedup     Deduplicator
	tracker   errors.Tracker
	cfg       Config
	log       *logger.Logger
}

// NewService creates a new checkout service
func NewService(
	bot telegram.Bot,
	formatter *receipt.Formatter,
	dedup Deduplicator,
	tracker errors.Tracker,
	cfg Config,
	log *logger.Logger,
) *Service {
	return &Service{
		bot:       bot,
		formatter: formatter,
		dedup:     dedup,
		tracker:   tracker,
		cfg:       cfg,
		log:       log.With("component", "checkout"),
	}
}

// PlaceOrder handles web app data sent by customer from chatID.
// The admin receipt goes out first. A duplicate order is ignored with a nil error.
func (s *Service) PlaceOrder(ctx context.Context, customer order.Customer, chatID int64, payload []byte) error {
	correlationID := uuid.NewString()
	ctx = errors.WithTag(ctx, "correlation_id", correlationID)
	ctx = errors.WithTag(ctx, "customer_id", strconv.FormatInt(customer.ID, 10))
	log := s.log.With("correlation_id", correlationID, "customer_id", customer.ID)

	o, err := order.ParsePayload(payload)
	if err != nil {
		log.Warnw("Rejected order payload", "error", err, "payload_bytes", len(payload))
		metrics.RecordOrder("invalid")
		s.reply(log, chatID, ReplyInvalidPayload)
		return errors.Wrap(err, "parse order")
	}

	log = log.With("order_number", o.Number())
	s.tracker.AddBreadcrumb(ctx, "order parsed", "checkout", errors.LevelInfo, map[string]interface{}{
		"order_number": o.Number(),
		"items":        len(o.Items),
	})

	key := claimKey(customer.ID, o, payload)
	claimed, err := s.dedup.Claim(ctx, key, s.cfg.DedupTTL)
	if err != nil {
		// Fail open: deliver without the guard
		log.Warnw("Duplicate guard unavailable, delivering anyway", "error", err)
		claimed = true
	}
	if !claimed {
		log.Infow("Duplicate order ignored")
		metrics.RecordOrder("duplicate")
		return nil
	}

	adminText, customerText, err := s.render(o, customer)
	if err != nil {
		return s.fail(ctx, log, chatID, key, err)
	}

	if err := s.send(ctx, recipientAdmin, s.cfg.AdminChatID, adminText, telegram.MessageOptions{
		ParseMode:             telegram.ParseModeMarkdownV2,
		DisableWebPagePreview: true,
	}); err != nil {
		return s.fail(ctx, log, chatID, key, err)
	}

	if err := s.send(ctx, recipientCustomer, chatID, customerText, telegram.MessageOptions{
		ParseMode: telegram.ParseModeMarkdownV2,
	}); err != nil {
		// Admin already notified, keep the claim
		return s.fail(ctx, log, chatID, "", err)
	}

	metrics.RecordOrder("sent")
	metrics.RecordAcceptedOrder(o.Kind().String(), o.ItemCount(), o.TotalAmount)

	log.Infow("Order delivered",
		"kind", o.Kind(),
		"units", humanize.Comma(int64(o.ItemCount())),
		"total_rub", humanize.CommafWithDigits(o.TotalAmount.InexactFloat64(), 2),
	)

	return nil
}

func (s *Service) render(o *order.Order, customer order.Customer) (string, string, error) {
	start := time.Now()
	adminText, err := s.formatter.AdminReceipt(o, customer)
	if err != nil {
		return "", "", errors.Wrap(err, "admin receipt")
	}
	metrics.RecordReceiptRender(time.Since(start))

	start = time.Now()
	customerText, err := s.formatter.CustomerReceipt(o, customer)
	if err != nil {
		return "", "", errors.Wrap(err, "customer receipt")
	}
	metrics.RecordReceiptRender(time.Since(start))

	// Receipts are never truncated
	if err := checkLength(recipientAdmin, adminText); err != nil {
		return "", "", err
	}
	if err := checkLength(recipientCustomer, customerText); err != nil {
		return "", "", err
	}

	return adminText, customerText, nil
}

func (s *Service) send(ctx context.Context, recipient string, chatID int64, text string, opts telegram.MessageOptions) error {
	start := time.Now()
	_, err := s.bot.SendMessageWithOptions(chatID, text, opts)
	metrics.RecordReceipt(recipient, time.Since(start), err)

	if err != nil {
		return errors.Wrapf(err, "send %s receipt", recipient)
	}

	s.tracker.AddBreadcrumb(ctx, recipient+" receipt sent", "checkout", errors.LevelInfo, nil)
	return nil
}

// fail reports a failed order and answers the customer with the generic reply.
// A non-empty claim key is released so the customer can resubmit.
func (s *Service) fail(ctx context.Context, log *logger.Logger, chatID int64, key string, err error) error {
	log.Errorw("Failed to process order", "error", err)
	metrics.RecordOrder("failed")

	if trackErr := s.tracker.CaptureError(ctx, err, map[string]string{"component": "checkout"}); trackErr != nil {
		log.Warnw("Failed to report order error", "error", trackErr)
	}

	if key != "" {
		if releaseErr := s.dedup.Release(ctx, key); releaseErr != nil {
			log.Warnw("Failed to release order claim", "error", releaseErr)
		}
	}

	s.reply(log, chatID, ReplyFailure)
	return err
}

func (s *Service) reply(log *logger.Logger, chatID int64, text string) {
	if err := s.bot.SendMessage(chatID, text); err != nil {
		log.Warnw("Failed to send reply to customer", "error", err)
	}
}

func checkLength(recipient, text string) error {
	if n := messageLength(text); n > telegram.MaxMessageLength {
		return errors.Wrapf(errors.ErrMessageTooLong, "%s receipt has %s characters", recipient, humanize.Comma(int64(n)))
	}
	return nil
}

// messageLength counts MarkdownV2 text the way Telegram limits it: in UTF-16
// code units, without escaping backslashes. Entity markers are still counted.
func messageLength(text string) int {
	n := 0
	escaped := false
	for _, r := range text {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		n += utf16.RuneLen(r)
	}
	return n
}

// claimKey identifies an order by customer and order number. Orders without
// a timestamp have no number, so the payload itself identifies them.
func claimKey(customerID int64, o *order.Order, payload []byte) string {
	if o.Timestamp != 0 {
		return fmt.Sprintf("%d:%s", customerID, o.Number())
	}
	return fmt.Sprintf("%d:payload:%s", customerID, uuid.NewSHA1(uuid.NameSpaceOID, payload))
}
