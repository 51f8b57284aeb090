package telegram

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sneakerculture/internal/domain/order"
	"sneakerculture/internal/testsupport"
	"sneakerculture/pkg/errors"
	"sneakerculture/pkg/logger"
	"sneakerculture/pkg/telegram"
)

const webAppURL = "https://shop.example/app"

// MockOrderService is a mock for OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, customer order.Customer, chatID int64, payload []byte) error {
	args := m.Called(ctx, customer, chatID, payload)
	return args.Error(0)
}

func newTestHandler(orders OrderService) (*Handler, *testsupport.FakeBot) {
	bot := testsupport.NewFakeBot()
	registry := telegram.NewCommandRegistry(bot, logger.Nop())
	return NewHandler(bot, registry, orders, webAppURL, logger.Nop()), bot
}

func textMessage(text string) telegram.Update {
	msg := &telegram.Message{
		MessageID: 1,
		From:      &telegram.User{ID: 42, FirstName: "Иван"},
		Chat:      &telegram.Chat{ID: 42, Type: "private"},
		Text:      text,
	}
	msg.ParseCommand()
	return telegram.Update{UpdateID: 1, Message: msg}
}

func TestHandler_Start(t *testing.T) {
	h, bot := newTestHandler(new(MockOrderService))

	h.HandleUpdate(textMessage("/start"))

	sent := bot.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(42), sent[0].ChatID)
	assert.Equal(t, welcomeText, sent[0].Text)
	assert.Equal(t, telegram.ParseModeNone, sent[0].Options.ParseMode)

	require.NotNil(t, sent[0].Options.ReplyKeyboard)
	data, err := json.Marshal(sent[0].Options.ReplyKeyboard)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"keyboard": [
			[{"text": "🚀 Открыть магазин", "web_app": {"url": "https://shop.example/app"}}],
			[{"text": "ℹ️ Помощь"}]
		],
		"resize_keyboard": true,
		"input_field_placeholder": "Выберите действие"
	}`, string(data))
}

func TestHandler_Help(t *testing.T) {
	for _, text := range []string{ButtonHelp, "/help"} {
		t.Run(text, func(t *testing.T) {
			h, bot := newTestHandler(new(MockOrderService))

			h.HandleUpdate(textMessage(text))

			sent := bot.Sent()
			require.Len(t, sent, 1)
			assert.Equal(t, "Это Telegram-бот магазина Sneaker Culture. Нажмите кнопку '🚀 Открыть магазин' для запуска веб-приложения.", sent[0].Text)
		})
	}
}

func TestHandler_WebAppData(t *testing.T) {
	orders := new(MockOrderService)
	h, bot := newTestHandler(orders)

	payload := `{"items": [{"title": "Nike Dunk Low", "price": 100, "quantity": 1}], "totalAmount": 100, "timestamp": 1}`
	customer := order.Customer{ID: 42, FirstName: "Иван", LastName: "Петров", Username: "ivan_p"}
	orders.On("PlaceOrder", mock.Anything, customer, int64(42), []byte(payload)).Return(nil)

	h.HandleUpdate(telegram.Update{UpdateID: 2, Message: &telegram.Message{
		MessageID:  2,
		From:       &telegram.User{ID: 42, FirstName: "Иван", LastName: "Петров", Username: "ivan_p"},
		Chat:       &telegram.Chat{ID: 42, Type: "private"},
		WebAppData: &telegram.WebAppData{Data: payload, ButtonText: ButtonOpenShop},
	}})

	orders.AssertExpectations(t)
	assert.Empty(t, bot.Sent(), "replies come from the order service")
}

func TestHandler_WebAppDataErrorIsLogged(t *testing.T) {
	orders := new(MockOrderService)
	h, _ := newTestHandler(orders)

	orders.On("PlaceOrder", mock.Anything, mock.Anything, int64(42), mock.Anything).Return(errors.ErrDeliveryFailed)

	assert.NotPanics(t, func() {
		h.HandleUpdate(telegram.Update{Message: &telegram.Message{
			From:       &telegram.User{ID: 42},
			Chat:       &telegram.Chat{ID: 42},
			WebAppData: &telegram.WebAppData{Data: "{}"},
		}})
	})
	orders.AssertExpectations(t)
}

func TestHandler_IgnoresOtherMessages(t *testing.T) {
	orders := new(MockOrderService)
	h, bot := newTestHandler(orders)

	h.HandleUpdate(textMessage("привет"))
	h.HandleUpdate(telegram.Update{UpdateID: 3})
	h.HandleUpdate(telegram.Update{Message: &telegram.Message{Text: "/start"}})

	assert.Empty(t, bot.Sent())
	orders.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_UnknownCommand(t *testing.T) {
	h, bot := newTestHandler(new(MockOrderService))

	h.HandleUpdate(textMessage("/catalog"))

	sent := bot.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "/catalog")
}
