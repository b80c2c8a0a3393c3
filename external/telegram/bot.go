package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/klangrad/klangrad/internal/config"
	"github.com/klangrad/klangrad/internal/leaderboard"
	"github.com/klangrad/klangrad/internal/playback"
	"github.com/klangrad/klangrad/internal/session"
	"github.com/klangrad/klangrad/internal/store"
)

const updateTimeoutSec = 30

// Bot is the chat-facing side of the system. It implements messenger.Sink for
// outbound notifications and runs the long-poll update loop for inbound
// commands, conversations, and live-location messages.
//
// The watcher is attached after construction via BindWatcher because the
// watcher itself depends on the Sink.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.Config
	repo    store.Repository
	player  playback.Client
	boards  *leaderboard.Builder
	watcher *session.Watcher

	mu            sync.Mutex
	authorized    map[int64]struct{}
	conversations map[int64]*conversation
}

func NewBot(cfg *config.Config, repo store.Repository, player playback.Client, boards *leaderboard.Builder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}
	return &Bot{
		api:           api,
		cfg:           cfg,
		repo:          repo,
		player:        player,
		boards:        boards,
		authorized:    make(map[int64]struct{}),
		conversations: make(map[int64]*conversation),
	}, nil
}

// BindWatcher wires the playback watcher in after the dependency graph is
// built. Must be called before Run.
func (b *Bot) BindWatcher(w *session.Watcher) {
	b.watcher = w
}

func (b *Bot) SendText(_ context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) SendImage(_ context.Context, chatID int64, image []byte) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "route.png", Bytes: image})
	_, err := b.api.Send(photo)
	return err
}

func (b *Bot) SendLocation(_ context.Context, chatID int64, lat, lon float64) error {
	_, err := b.api.Send(tgbotapi.NewLocation(chatID, lat, lon))
	return err
}

// Run blocks on the update loop until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if b.watcher == nil {
		return fmt.Errorf("watcher is not bound")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSec
	updates := b.api.GetUpdatesChan(u)
	slog.Info("telegram update loop started", "bot_username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Live-location updates arrive as message edits.
	if update.EditedMessage != nil && update.EditedMessage.Location != nil {
		b.handleLocation(ctx, update.EditedMessage)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if msg.Location != nil {
		b.handleLocation(ctx, msg)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

func (b *Bot) handleLocation(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From) {
		return
	}
	b.watcher.HandleLocation(ctx, msg.Location.Latitude, msg.Location.Longitude)
}

func (b *Bot) isAdmin(user *tgbotapi.User) bool {
	return user != nil && user.UserName == b.cfg.TelegramAdminUser
}

func (b *Bot) isAuthorized(msg *tgbotapi.Message) bool {
	if b.isAdmin(msg.From) {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.authorized[msg.Chat.ID]
	return ok
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Error("failed to send telegram message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, rows ...[]tgbotapi.KeyboardButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("failed to send telegram keyboard", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) replyRemoveKeyboard(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("failed to send telegram message", "chat_id", chatID, "error", err)
	}
}

func senderFromMessage(msg *tgbotapi.Message) store.Sender {
	return store.Sender{
		ChatID:    msg.Chat.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}
}
