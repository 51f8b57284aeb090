package telegram

// ReplyKeyboardMarkup is a custom reply keyboard. It marshals to the Bot API
// shape directly, so it can be handed to any client as reply_markup.
type ReplyKeyboardMarkup struct {
	Keyboard              [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard        bool               `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard       bool               `json:"one_time_keyboard,omitempty"`
	InputFieldPlaceholder string             `json:"input_field_placeholder,omitempty"`
}

// KeyboardButton is a reply keyboard button, optionally opening a web app
type KeyboardButton struct {
	Text   string      `json:"text"`
	WebApp *WebAppInfo `json:"web_app,omitempty"`
}

// WebAppInfo describes the web app a button opens
type WebAppInfo struct {
	URL string `json:"url"`
}

// NewReplyKeyboard creates a resized reply keyboard
func NewReplyKeyboard(rows ...[]KeyboardButton) ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{
		Keyboard:       rows,
		ResizeKeyboard: true,
	}
}

// NewKeyboardRow creates a row of reply keyboard buttons
func NewKeyboardRow(buttons ...KeyboardButton) []KeyboardButton {
	return buttons
}

// NewKeyboardButton creates a button that sends its text
func NewKeyboardButton(text string) KeyboardButton {
	return KeyboardButton{Text: text}
}

// NewWebAppButton creates a button that opens a web app
func NewWebAppButton(text, url string) KeyboardButton {
	return KeyboardButton{
		Text:   text,
		WebApp: &WebAppInfo{URL: url},
	}
}
