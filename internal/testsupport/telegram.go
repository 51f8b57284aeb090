package testsupport

import (
	"context"
	"sync"

	"sneakerculture/pkg/telegram"
)

// SentMessage is a message captured by FakeBot
type SentMessage struct {
	ChatID  int64
	Text    string
	Options telegram.MessageOptions
}

// FakeBot records outgoing messages instead of calling the Bot API
type FakeBot struct {
	mu      sync.Mutex
	sent    []SentMessage
	failFor map[int64]error
	handler func(telegram.Update)
	nextID  int
	started bool
	stopped bool
}

// NewFakeBot creates an empty recording bot
func NewFakeBot() *FakeBot {
	return &FakeBot{failFor: make(map[int64]error)}
}

// FailFor makes every send to chatID return err
func (b *FakeBot) FailFor(chatID int64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failFor[chatID] = err
}

// Sent returns a copy of every successfully sent message
func (b *FakeBot) Sent() []SentMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]SentMessage, len(b.sent))
	copy(out, b.sent)
	return out
}

// SentTo returns messages sent to chatID
func (b *FakeBot) SentTo(chatID int64) []SentMessage {
	var out []SentMessage
	for _, msg := range b.Sent() {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

// Running reports whether Start was called and Stop was not
func (b *FakeBot) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started && !b.stopped
}

// Dispatch delivers update to the registered handler
func (b *FakeBot) Dispatch(update telegram.Update) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler != nil {
		handler(update)
	}
}

func (b *FakeBot) Start(ctx context.Context) error {
	b.mu.Lock()
	b.started = true
	b.mu.Unlock()
	<-ctx.Done()
	return nil
}

func (b *FakeBot) Stop() {
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()
}

func (b *FakeBot) SetHandler(handler func(telegram.Update)) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

func (b *FakeBot) SendMessage(chatID int64, text string) error {
	_, err := b.SendMessageWithOptions(chatID, text, telegram.MessageOptions{})
	return err
}

func (b *FakeBot) SendMessageWithOptions(chatID int64, text string, opts telegram.MessageOptions) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.failFor[chatID]; err != nil {
		return 0, err
	}

	b.nextID++
	b.sent = append(b.sent, SentMessage{ChatID: chatID, Text: text, Options: opts})
	return b.nextID, nil
}

var _ telegram.Bot = (*FakeBot)(nil)
