package telegram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ParseCommand(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantIsCommand bool
		wantCommand   string
		wantArgs      string
	}{
		{
			name:          "simple command",
			text:          "/start",
			wantIsCommand: true,
			wantCommand:   "start",
			wantArgs:      "",
		},
		{
			name:          "command with args",
			text:          "/start promo2024",
			wantIsCommand: true,
			wantCommand:   "start",
			wantArgs:      "promo2024",
		},
		{
			name:          "command with @botname and args",
			text:          "/help@SneakerCultureBot orders  now",
			wantIsCommand: true,
			wantCommand:   "help",
			wantArgs:      "orders now",
		},
		{
			name:          "keyboard button text",
			text:          "ℹ️ Помощь",
			wantIsCommand: false,
			wantCommand:   "",
			wantArgs:      "",
		},
		{
			name:          "text starting with /",
			text:          "/",
			wantIsCommand: true,
			wantCommand:   "",
			wantArgs:      "",
		},
		{
			name:          "empty text",
			text:          "",
			wantIsCommand: false,
			wantCommand:   "",
			wantArgs:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Text: tt.text}
			msg.ParseCommand()

			assert.Equal(t, tt.wantIsCommand, msg.IsCommand)
			assert.Equal(t, tt.wantCommand, msg.Command)
			assert.Equal(t, tt.wantArgs, msg.Arguments)
		})
	}
}

func TestUpdate_DecodeWebAppData(t *testing.T) {
	raw := `{
		"update_id": 10,
		"message": {
			"message_id": 77,
			"from": {"id": 42, "first_name": "Иван", "username": "ivan"},
			"chat": {"id": 42, "type": "private"},
			"date": 1700000000,
			"web_app_data": {"data": "{\"items\":[]}", "button_text": "🚀 Открыть магазин"}
		}
	}`

	var update Update
	require.NoError(t, json.Unmarshal([]byte(raw), &update))

	require.True(t, update.HasMessage())
	require.True(t, update.Message.HasWebAppData())
	assert.Equal(t, `{"items":[]}`, update.Message.WebAppData.Data)
	assert.Equal(t, int64(42), update.Message.From.ID)
	assert.Equal(t, "Иван", update.Message.From.FirstName)
	assert.Equal(t, int64(42), update.Message.Chat.ID)
}

func TestMessage_HasWebAppData_Nil(t *testing.T) {
	var msg *Message
	assert.False(t, msg.HasWebAppData())
	assert.False(t, (&Message{Text: "hi"}).HasWebAppData())
}
