package telegram

import (
	"context"
)

// Parse modes accepted by sendMessage
const (
	ParseModeNone       = ""
	ParseModeMarkdownV2 = "MarkdownV2"
	ParseModeHTML       = "HTML"
)

// MaxMessageLength is the sendMessage text limit in characters
const MaxMessageLength = 4096

// Bot interface abstracts telegram bot operations (for dependency injection)
type Bot interface {
	// Start starts long polling and blocks until ctx is done
	Start(ctx context.Context) error

	// Stop stops the bot
	Stop()

	// SetHandler sets update handler
	SetHandler(handler func(Update))

	// SendMessage sends a plain text message (no parse mode)
	SendMessage(chatID int64, text string) error

	// SendMessageWithOptions sends message with custom options and returns its id
	SendMessageWithOptions(chatID int64, text string, opts MessageOptions) (int, error)
}

// MessageOptions defines options for sending messages
type MessageOptions struct {
	// ParseMode (MarkdownV2, HTML or empty for plain text)
	ParseMode string

	// DisableWebPagePreview disables link previews
	DisableWebPagePreview bool

	// DisableNotification sends message silently
	DisableNotification bool

	// ReplyToMessageID replies to specific message
	ReplyToMessageID int

	// ReplyKeyboard replaces the user's keyboard
	ReplyKeyboard *ReplyKeyboardMarkup
}

// ValidationError represents validation failure shown to the user as is
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error interface
func (v ValidationError) Error() string {
	return v.Message
}
