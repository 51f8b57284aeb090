package telegram

import (
	"sneakerculture/pkg/telegram"
)

const (
	ButtonOpenShop = "🚀 Открыть магазин"
	ButtonHelp     = "ℹ️ Помощь"

	welcomeText = "Добро пожаловать. Выберите действие из встроенной клавиатуры:"
	helpText    = "Это Telegram-бот магазина Sneaker Culture. Нажмите кнопку '" + ButtonOpenShop + "' для запуска веб-приложения."

	inputPlaceholder = "Выберите действие"
)

func (h *Handler) registerCommands() {
	h.commandRegistry.MustRegister(telegram.CommandConfig{
		Name:        "start",
		Description: "Открыть меню магазина",
		Handler:     h.handleStart,
	})

	h.commandRegistry.MustRegister(telegram.CommandConfig{
		Name:        "help",
		Triggers:    []string{ButtonHelp},
		Description: "Как сделать заказ",
		Handler:     h.handleHelp,
	})
}

// handleStart shows the main reply keyboard with the web app button
func (h *Handler) handleStart(ctx *telegram.CommandContext) error {
	keyboard := h.mainKeyboard()
	_, err := ctx.Bot.SendMessageWithOptions(ctx.ChatID, welcomeText, telegram.MessageOptions{
		ReplyKeyboard: &keyboard,
	})
	return err
}

func (h *Handler) handleHelp(ctx *telegram.CommandContext) error {
	return ctx.Bot.SendMessage(ctx.ChatID, helpText)
}

func (h *Handler) mainKeyboard() telegram.ReplyKeyboardMarkup {
	keyboard := telegram.NewReplyKeyboard(
		telegram.NewKeyboardRow(telegram.NewWebAppButton(ButtonOpenShop, h.webAppURL)),
		telegram.NewKeyboardRow(telegram.NewKeyboardButton(ButtonHelp)),
	)
	keyboard.InputFieldPlaceholder = inputPlaceholder
	return keyboard
}
