// Package bot runs the interactive command loop: long-poll Telegram for
// updates, map each command to a repository-provider call, and reply with
// formatted text. Updates are handled strictly in arrival order; a reply
// fully resolves before the next update is touched.
package bot

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/repository"
	"github.com/hubwatch/hubwatch/internal/telegram"
)

// pollTimeout is how long each getUpdates call is held open, in seconds.
const pollTimeout = 60

// API is the slice of the Telegram client the bot needs. Tests stub it.
type API interface {
	SendMessage(ctx context.Context, chatID, text string) error
	GetUpdates(ctx context.Context, offset int64, timeout int) ([]telegram.Update, error)
}

// Bot is the command dispatcher. It owns no mutable state besides the
// poll offset, which only the Run goroutine touches.
type Bot struct {
	cfg      *config.Config
	api      API
	provider repository.Provider
}

// New creates a Bot.
func New(cfg *config.Config, api API, provider repository.Provider) *Bot {
	return &Bot{cfg: cfg, api: api, provider: provider}
}

// Run long-polls for updates until ctx is cancelled. Poll failures are
// logged and retried after a short pause; nothing here is fatal.
func (b *Bot) Run(ctx context.Context) error {
	slog.Info("bot: command loop started", "provider", b.provider.Name())
	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}
		updates, err := b.api.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("bot: polling failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, u.Message)
		}
	}
}

// handleMessage dispatches one message and sends the reply. Nothing
// propagates out of here: provider failures become error text, and a
// failed send is only logged.
func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	if !b.allowed(msg) {
		slog.Debug("bot: ignoring message from non-admin", "chat", msg.Chat.ID)
		return
	}
	reply := b.dispatch(ctx, msg.Text)
	if reply == "" {
		return
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	if err := b.api.SendMessage(ctx, chatID, reply); err != nil {
		slog.Warn("bot: sending reply failed", "chat", chatID, "error", err)
	}
}

// allowed applies the optional admin restriction.
func (b *Bot) allowed(msg *telegram.Message) bool {
	admin := b.cfg.Telegram.AdminID
	if admin == "" {
		return true
	}
	return msg.From != nil && strconv.FormatInt(msg.From.ID, 10) == admin
}
