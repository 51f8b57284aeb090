package telegram

import (
	"context"

	"sneakerculture/internal/domain/order"
	"sneakerculture/pkg/logger"
	"sneakerculture/pkg/telegram"
)

// OrderService places orders submitted from the shop web app
type OrderService interface {
	PlaceOrder(ctx context.Context, customer order.Customer, chatID int64, payload []byte) error
}

// Handler processes Telegram updates using pkg/telegram framework
type Handler struct {
	bot             telegram.Bot
	commandRegistry *telegram.CommandRegistry
	orders          OrderService
	webAppURL       string
	log             *logger.Logger
}

// NewHandler creates a new telegram handler and registers the bot commands
func NewHandler(
	bot telegram.Bot,
	commandRegistry *telegram.CommandRegistry,
	orders OrderService,
	webAppURL string,
	log *logger.Logger,
) *Handler {
	h := &Handler{
		bot:             bot,
		commandRegistry: commandRegistry,
		orders:          orders,
		webAppURL:       webAppURL,
		log:             log.With("component", "telegram_handler"),
	}
	h.registerCommands()
	return h
}

// HandleUpdate processes incoming Telegram update
// This is the main entry point for all updates
func (h *Handler) HandleUpdate(update telegram.Update) {
	if !update.HasMessage() {
		return
	}

	ctx := context.Background()
	if err := h.handleMessage(ctx, update.Message); err != nil {
		h.log.Errorw("Failed to handle message",
			"update_id", update.UpdateID,
			"message_id", update.Message.MessageID,
			"error", err,
		)
	}
}

// handleMessage routes web app data first, then commands, then keyboard buttons
func (h *Handler) handleMessage(ctx context.Context, msg *telegram.Message) error {
	if msg.From == nil {
		return nil
	}

	chatID := msg.From.ID
	if msg.Chat != nil {
		chatID = msg.Chat.ID
	}

	if msg.HasWebAppData() {
		h.log.Debugw("Received web app data",
			"telegram_id", msg.From.ID,
			"button", msg.WebAppData.ButtonText,
			"bytes", len(msg.WebAppData.Data),
		)
		return h.orders.PlaceOrder(ctx, customerFrom(msg.From), chatID, []byte(msg.WebAppData.Data))
	}

	if msg.IsCommand {
		return h.commandRegistry.Handle(ctx, msg.From, chatID, msg.Command, msg.Arguments, msg.Text)
	}

	routed, err := h.commandRegistry.HandleText(ctx, msg.From, chatID, msg.Text)
	if err != nil || routed {
		return err
	}

	h.log.Debugw("Ignoring message",
		"telegram_id", msg.From.ID,
		"text_length", len(msg.Text),
	)
	return nil
}

func customerFrom(u *telegram.User) order.Customer {
	return order.Customer{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}
