package notify

import (
	"context"
	"strings"

	"github.com/hubwatch/hubwatch/internal/telegram"
)

// TelegramChannel delivers notifications to one fixed chat via the
// shared Bot API client.
type TelegramChannel struct {
	client *telegram.Client
	chatID string
}

// NewTelegram creates a TelegramChannel sending to chatID.
func NewTelegram(client *telegram.Client, chatID string) *TelegramChannel {
	return &TelegramChannel{client: client, chatID: chatID}
}

func (t *TelegramChannel) Name() string       { return "telegram" }
func (t *TelegramChannel) IsConfigured() bool { return t.client != nil && t.chatID != "" }

func (t *TelegramChannel) Send(ctx context.Context, evt Event) error {
	var b strings.Builder
	b.WriteString(evt.Title)
	if evt.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(evt.Body)
	}
	if evt.URL != "" {
		b.WriteString("\n")
		b.WriteString(evt.URL)
	}
	return t.client.SendMessage(ctx, t.chatID, b.String())
}
