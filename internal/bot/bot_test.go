package bot

import (
	"context"
	"testing"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/telegram"
	"github.com/hubwatch/hubwatch/models"
)

// scriptedAPI feeds one batch of updates, then cancels the run loop.
type scriptedAPI struct {
	updates []telegram.Update
	cancel  context.CancelFunc

	offsets []int64
	sent    []string
	sentTo  []string
}

func (s *scriptedAPI) GetUpdates(ctx context.Context, offset int64, timeout int) ([]telegram.Update, error) {
	s.offsets = append(s.offsets, offset)
	if len(s.offsets) > 1 {
		s.cancel()
		return nil, nil
	}
	return s.updates, nil
}

func (s *scriptedAPI) SendMessage(_ context.Context, chatID, text string) error {
	s.sentTo = append(s.sentTo, chatID)
	s.sent = append(s.sent, text)
	return nil
}

func msgUpdate(id int64, fromID int64, chatID int64, text string) telegram.Update {
	return telegram.Update{
		UpdateID: id,
		Message: &telegram.Message{
			From: &telegram.User{ID: fromID},
			Chat: telegram.Chat{ID: chatID},
			Text: text,
		},
	}
}

func TestRunAdvancesOffsetAndReplies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &scriptedAPI{
		cancel: cancel,
		updates: []telegram.Update{
			msgUpdate(100, 1, 42, "/help"),
			msgUpdate(101, 1, 42, "/start"),
		},
	}
	cfg := &config.Config{Telegram: config.TelegramConfig{Token: "t", ChatID: "42"}}
	b := New(cfg, api, &stubProvider{})

	if err := b.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(api.offsets) < 2 || api.offsets[0] != 0 || api.offsets[1] != 102 {
		t.Fatalf("offsets = %v, want [0 102]", api.offsets)
	}
	if len(api.sent) != 2 {
		t.Fatalf("got %d replies, want 2", len(api.sent))
	}
	// Replies go back to the chat the command came from.
	if api.sentTo[0] != "42" {
		t.Errorf("reply chat = %q", api.sentTo[0])
	}
}

func TestRunIgnoresNonAdminMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &scriptedAPI{
		cancel: cancel,
		updates: []telegram.Update{
			msgUpdate(1, 555, 42, "/help"),
			msgUpdate(2, 777, 42, "/help"),
		},
	}
	cfg := &config.Config{Telegram: config.TelegramConfig{Token: "t", ChatID: "42", AdminID: "777"}}
	p := &stubProvider{user: &models.User{Login: "x"}}
	b := New(cfg, api, p)

	if err := b.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("got %d replies, want 1 (admin only)", len(api.sent))
	}
}

func TestRunSkipsNonTextUpdates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	api := &scriptedAPI{
		cancel: cancel,
		updates: []telegram.Update{
			{UpdateID: 5},
			{UpdateID: 6, Message: &telegram.Message{Chat: telegram.Chat{ID: 42}}},
		},
	}
	cfg := &config.Config{Telegram: config.TelegramConfig{Token: "t", ChatID: "42"}}
	b := New(cfg, api, &stubProvider{})

	if err := b.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(api.sent) != 0 {
		t.Fatalf("empty updates produced replies: %v", api.sent)
	}
	if api.offsets[1] != 7 {
		t.Fatalf("offset after empty updates = %d, want 7", api.offsets[1])
	}
}
