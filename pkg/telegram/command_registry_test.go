package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneakerculture/pkg/logger"
)

type sentText struct {
	chatID int64
	text   string
}

// recordingBot captures plain messages
type recordingBot struct {
	sent []sentText
}

func (b *recordingBot) Start(ctx context.Context) error { return nil }
func (b *recordingBot) Stop()                           {}
func (b *recordingBot) SetHandler(func(Update))         {}

func (b *recordingBot) SendMessage(chatID int64, text string) error {
	b.sent = append(b.sent, sentText{chatID: chatID, text: text})
	return nil
}

func (b *recordingBot) SendMessageWithOptions(chatID int64, text string, _ MessageOptions) (int, error) {
	return len(b.sent), b.SendMessage(chatID, text)
}

func TestCommandRegistry_RoutesCommandsAndTriggers(t *testing.T) {
	bot := &recordingBot{}
	registry := NewCommandRegistry(bot, logger.Nop())

	var calls []string
	registry.MustRegister(CommandConfig{
		Name:     "help",
		Aliases:  []string{"h"},
		Triggers: []string{"ℹ️ Помощь"},
		Handler: func(ctx *CommandContext) error {
			calls = append(calls, ctx.Command+":"+ctx.RawMessage)
			assert.Equal(t, int64(5), ctx.TelegramID)
			return nil
		},
	})

	from := &User{ID: 5}
	require.NoError(t, registry.Handle(context.Background(), from, 5, "HELP", "", "/HELP"))
	require.NoError(t, registry.Handle(context.Background(), from, 5, "h", "", "/h"))

	handled, err := registry.HandleText(context.Background(), from, 5, " ℹ️ Помощь ")
	require.NoError(t, err)
	assert.True(t, handled)

	handled, err = registry.HandleText(context.Background(), from, 5, "hello")
	require.NoError(t, err)
	assert.False(t, handled)

	assert.Equal(t, []string{"help:/HELP", "h:/h", "help: ℹ️ Помощь "}, calls)
	assert.Empty(t, bot.sent)
}

func TestCommandRegistry_UnknownCommand(t *testing.T) {
	bot := &recordingBot{}
	registry := NewCommandRegistry(bot, logger.Nop())

	require.NoError(t, registry.Handle(context.Background(), nil, 9, "shop", "", "/shop"))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, "❌ Неизвестная команда: /shop\n\nНажмите /start, чтобы открыть меню.", bot.sent[0].text)
}

func TestCommandRegistry_HandlerErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantReply string
	}{
		{name: "generic", err: errors.New("boom"), wantReply: "❌ Что-то пошло не так, попробуйте еще раз"},
		{name: "validation", err: ValidationError{Field: "size", Message: "Размер не выбран"}, wantReply: "❌ Размер не выбран"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &recordingBot{}
			registry := NewCommandRegistry(bot, logger.Nop())
			registry.Register(CommandConfig{
				Name:    "start",
				Handler: func(*CommandContext) error { return tt.err },
			})

			err := registry.Handle(context.Background(), nil, 1, "start", "", "/start")
			assert.ErrorIs(t, err, tt.err)

			require.Len(t, bot.sent, 1)
			assert.Equal(t, tt.wantReply, bot.sent[0].text)
		})
	}
}

func TestCommandRegistry_Middleware(t *testing.T) {
	bot := &recordingBot{}
	registry := NewCommandRegistry(bot, logger.Nop())

	var recorded []string
	registry.Use(RecoveryMiddleware(logger.Nop()))
	registry.Use(MetricsMiddleware(func(command string, success bool, _ time.Duration) {
		if success {
			recorded = append(recorded, command+":ok")
		} else {
			recorded = append(recorded, command+":error")
		}
	}))

	registry.Register(CommandConfig{Name: "start", Handler: func(*CommandContext) error { return nil }})
	registry.Register(CommandConfig{Name: "panic", Hidden: true, Handler: func(*CommandContext) error { panic("nil map") }})

	require.NoError(t, registry.Handle(context.Background(), nil, 1, "start", "", "/start"))
	assert.Error(t, registry.Handle(context.Background(), nil, 1, "panic", "", "/panic"))

	assert.Equal(t, []string{"start:ok"}, recorded, "recovery wraps metrics, so a panic skips the metrics record")
	require.Len(t, bot.sent, 1)
	assert.Equal(t, "❌ Что-то пошло не так, попробуйте еще раз", bot.sent[0].text)
}

func TestCommandRegistry_Commands(t *testing.T) {
	registry := NewCommandRegistry(&recordingBot{}, logger.Nop())
	noop := func(*CommandContext) error { return nil }

	registry.Register(CommandConfig{Name: "start", Aliases: []string{"s"}, Handler: noop})
	registry.Register(CommandConfig{Name: "help", Handler: noop})
	registry.Register(CommandConfig{Name: "debug", Hidden: true, Handler: noop})
	registry.Register(CommandConfig{Name: "", Handler: noop})
	registry.Register(CommandConfig{Name: "broken"})

	names := func(cmds []*CommandConfig) []string {
		out := make([]string, 0, len(cmds))
		for _, c := range cmds {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"help", "start"}, names(registry.Commands(false)))
	assert.Equal(t, []string{"debug", "help", "start"}, names(registry.Commands(true)))
	assert.True(t, registry.HasCommand("S"))
	assert.False(t, registry.HasCommand("broken"))
}
