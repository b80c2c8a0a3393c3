package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/klangrad/klangrad/internal/leaderboard"
	"github.com/klangrad/klangrad/internal/playback"
	"github.com/klangrad/klangrad/internal/session"
	"github.com/klangrad/klangrad/internal/store"
)

type convState int

const (
	stateIdle convState = iota
	statePassword
	stateListenMode
	stateSearchPick
	stateSearchConfirm
	stateSubmitNote
)

type conversation struct {
	state   convState
	results []playback.SearchResult
	chosen  playback.SearchResult
}

const (
	listenWithTracking    = "With location tracking"
	listenWithoutTracking = "Just listening"
	confirmYes            = "Yes, that's the one"
	confirmNo             = "No, not that one"
	skipNote              = "Nothing to add"
)

func (b *Bot) conversationFor(chatID int64) *conversation {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.conversations[chatID]
	if !ok {
		c = &conversation{}
		b.conversations[chatID] = c
	}
	return c
}

func (b *Bot) authorize(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authorized[chatID] = struct{}{}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	slog.Info("command received", "chat_id", msg.Chat.ID, "command", cmd)

	switch cmd {
	case "start":
		b.handleStart(msg)
		return
	case "help":
		b.reply(msg.Chat.ID, helpText(b.isAdmin(msg.From)))
		return
	}

	if !b.isAuthorized(msg) {
		b.askPassword(msg.Chat.ID)
		return
	}

	switch cmd {
	case "now":
		b.handleNow(ctx, msg.Chat.ID)
	case "next":
		b.handleNext(ctx, msg.Chat.ID)
	case "rank":
		b.handleRank(ctx, msg.Chat.ID)
	case "listen":
		b.adminOnly(msg, b.handleListen)
	case "stop":
		b.adminOnly(msg, func(msg *tgbotapi.Message) { b.handleStop(ctx, msg) })
	case "skip":
		b.adminOnly(msg, func(msg *tgbotapi.Message) { b.handleSkip(ctx, msg) })
	case "p":
		b.adminOnly(msg, func(msg *tgbotapi.Message) { b.handlePlayPause(ctx, msg) })
	case "hm":
		b.adminOnly(msg, func(msg *tgbotapi.Message) { b.handlePendingDigest(ctx, msg) })
	case "chat_id":
		b.adminOnly(msg, func(msg *tgbotapi.Message) {
			b.reply(msg.Chat.ID, fmt.Sprintf("This chat's id is %d.", msg.Chat.ID))
		})
	case "register":
		b.adminOnly(msg, func(msg *tgbotapi.Message) { b.handleRegister(ctx, msg) })
	default:
		b.reply(msg.Chat.ID, "I don't know that command. Try /help.")
	}
}

func (b *Bot) adminOnly(msg *tgbotapi.Message, handler func(*tgbotapi.Message)) {
	if !b.isAdmin(msg.From) {
		b.reply(msg.Chat.ID, "Only my operator can do that.")
		return
	}
	handler(msg)
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	if b.isAuthorized(msg) {
		b.reply(msg.Chat.ID, "Hi again! Send me a song name or a Spotify link and I'll put it on the ride playlist.")
		return
	}
	b.askPassword(msg.Chat.ID)
}

func (b *Bot) askPassword(chatID int64) {
	c := b.conversationFor(chatID)
	c.state = statePassword
	question := b.cfg.AccessQuestion
	b.reply(chatID, "Before we start: "+question)
}

func helpText(admin bool) string {
	var sb strings.Builder
	sb.WriteString("Send me a song name and I'll search for it, or paste a Spotify track link directly.\n\n")
	sb.WriteString("/now - what is playing right now\n")
	sb.WriteString("/next - what comes up next\n")
	sb.WriteString("/rank - your spot on the DJ leaderboard\n")
	if admin {
		sb.WriteString("\nOperator commands:\n")
		sb.WriteString("/listen - go online\n")
		sb.WriteString("/stop - go offline\n")
		sb.WriteString("/skip - skip the current track\n")
		sb.WriteString("/p - play or pause\n")
		sb.WriteString("/hm - pending submissions\n")
		sb.WriteString("/chat_id - show this chat's id\n")
		sb.WriteString("/register - receive operator notifications here\n")
	}
	return sb.String()
}

func (b *Bot) handleNow(ctx context.Context, chatID int64) {
	state, err := b.player.NowPlaying(ctx)
	if errors.Is(err, playback.ErrNoActiveDevice) {
		b.reply(chatID, "Nothing is playing right now.")
		return
	}
	if err != nil {
		slog.Error("failed to query playback", "error", err)
		b.reply(chatID, "I couldn't reach the player, try again in a bit.")
		return
	}
	verb := "Now playing"
	if !state.Playing {
		verb = "Paused on"
	}
	b.reply(chatID, fmt.Sprintf("%s: %s - %s", verb, state.Title, strings.Join(state.Artists, ", ")))
}

func (b *Bot) handleNext(ctx context.Context, chatID int64) {
	next, err := b.player.NextInQueue(ctx)
	if err != nil {
		slog.Error("failed to query queue", "error", err)
		b.reply(chatID, "I couldn't reach the player, try again in a bit.")
		return
	}
	if next == "" {
		b.reply(chatID, "The queue is empty.")
		return
	}
	b.reply(chatID, "Up next: "+next)
}

func (b *Bot) handleRank(ctx context.Context, chatID int64) {
	report, err := b.boards.Build(ctx, chatID)
	if err != nil {
		slog.Error("failed to build leaderboard", "error", err)
		b.reply(chatID, "The leaderboard is unavailable right now.")
		return
	}
	b.reply(chatID, leaderboard.FormatReport(report))
}

func (b *Bot) handleListen(msg *tgbotapi.Message) {
	c := b.conversationFor(msg.Chat.ID)
	c.state = stateListenMode
	b.replyWithKeyboard(msg.Chat.ID, "Should I track your location this time?",
		[]tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(listenWithTracking),
			tgbotapi.NewKeyboardButton(listenWithoutTracking),
		})
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) {
	err := b.watcher.Stop(ctx)
	if errors.Is(err, session.ErrAlreadyOffline) {
		b.reply(msg.Chat.ID, "I wasn't listening anyway.")
		return
	}
	if err != nil {
		slog.Error("failed to stop watcher", "error", err)
		b.reply(msg.Chat.ID, "Something went wrong while stopping.")
		return
	}
	b.reply(msg.Chat.ID, "Going offline. Thanks for the ride!")
}

func (b *Bot) handleSkip(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.player.Skip(ctx); err != nil {
		slog.Error("failed to skip track", "error", err)
		b.reply(msg.Chat.ID, "Couldn't skip, sorry.")
		return
	}
	b.reply(msg.Chat.ID, "Skipped.")
}

func (b *Bot) handlePlayPause(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.player.PlayPause(ctx); err != nil {
		slog.Error("failed to toggle playback", "error", err)
		b.reply(msg.Chat.ID, "Couldn't toggle playback, sorry.")
	}
}

func (b *Bot) handlePendingDigest(ctx context.Context, msg *tgbotapi.Message) {
	pending, err := b.repo.PendingSubmissions(ctx)
	if err != nil {
		slog.Error("failed to list pending submissions", "error", err)
		b.reply(msg.Chat.ID, "Couldn't read the submission list.")
		return
	}
	if len(pending) == 0 {
		b.reply(msg.Chat.ID, "No pending submissions.")
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d pending submission(s):\n", len(pending))
	for _, p := range pending {
		fmt.Fprintf(&sb, "- %s (from %s)\n", p.Content, p.Sender.DisplayName())
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleRegister(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.repo.SetOperatorChatID(ctx, msg.Chat.ID); err != nil {
		slog.Error("failed to register operator chat", "error", err)
		b.reply(msg.Chat.ID, "Couldn't save that, sorry.")
		return
	}
	b.reply(msg.Chat.ID, "Registered. I'll send operator notifications here.")
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	c := b.conversationFor(msg.Chat.ID)

	switch c.state {
	case statePassword:
		b.handlePasswordAnswer(msg, c)
		return
	case stateListenMode:
		b.handleListenMode(ctx, msg, c)
		return
	case stateSearchPick:
		b.handleSearchPick(msg, c)
		return
	case stateSearchConfirm:
		b.handleSearchConfirm(msg, c)
		return
	case stateSubmitNote:
		b.handleSubmitNote(ctx, msg, c)
		return
	}

	if !b.isAuthorized(msg) {
		b.askPassword(msg.Chat.ID)
		return
	}

	if trackID := b.player.TrackIDFromURL(msg.Text); trackID != "" {
		c.chosen = playback.SearchResult{DisplayTitle: msg.Text, TrackID: trackID}
		c.state = stateSubmitNote
		b.askSubmitNote(msg.Chat.ID)
		return
	}
	b.handleSearchQuery(ctx, msg, c)
}

func (b *Bot) handlePasswordAnswer(msg *tgbotapi.Message, c *conversation) {
	if msg.Text == b.cfg.AccessPassword {
		b.authorize(msg.Chat.ID)
		c.state = stateIdle
		b.reply(msg.Chat.ID, "That's it, welcome aboard! Send me a song name or a Spotify link.")
		return
	}
	hint := b.cfg.AccessHint
	if hint == "" {
		b.reply(msg.Chat.ID, "Nope, that's not it. Try again.")
		return
	}
	b.reply(msg.Chat.ID, "Nope, that's not it. Hint: "+hint)
}

func (b *Bot) handleListenMode(ctx context.Context, msg *tgbotapi.Message, c *conversation) {
	c.state = stateIdle
	withTracking := msg.Text == listenWithTracking

	err := b.watcher.Start(ctx, withTracking)
	if errors.Is(err, session.ErrAlreadyOnline) {
		b.replyRemoveKeyboard(msg.Chat.ID, "I'm already listening.")
		return
	}
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		b.replyRemoveKeyboard(msg.Chat.ID, "I couldn't find an active playback device. Start playing something first.")
		return
	}
	if withTracking {
		b.replyRemoveKeyboard(msg.Chat.ID, "I'm listening! Share your live location and we're off.")
		return
	}
	b.replyRemoveKeyboard(msg.Chat.ID, "I'm listening!")
}

func (b *Bot) handleSearchQuery(ctx context.Context, msg *tgbotapi.Message, c *conversation) {
	results, err := b.player.Search(ctx, msg.Text)
	if err != nil {
		slog.Error("failed to search tracks", "error", err)
		b.reply(msg.Chat.ID, "The search is not working right now, try again later.")
		return
	}
	if len(results) == 0 {
		b.reply(msg.Chat.ID, "I found nothing for that, sorry. Try different words?")
		return
	}

	c.state = stateSearchPick
	c.results = results
	rows := make([][]tgbotapi.KeyboardButton, 0, len(results))
	for _, r := range results {
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(r.DisplayTitle)})
	}
	b.replyWithKeyboard(msg.Chat.ID, "Here is what I found. Which one do you mean?", rows...)
}

func (b *Bot) handleSearchPick(msg *tgbotapi.Message, c *conversation) {
	for _, r := range c.results {
		if r.DisplayTitle != msg.Text {
			continue
		}
		c.chosen = r
		c.state = stateSearchConfirm
		if r.PreviewURL != "" {
			b.reply(msg.Chat.ID, "Here is a preview: "+r.PreviewURL)
		}
		b.replyWithKeyboard(msg.Chat.ID, "Is that the track you want?",
			[]tgbotapi.KeyboardButton{
				tgbotapi.NewKeyboardButton(confirmYes),
				tgbotapi.NewKeyboardButton(confirmNo),
			})
		return
	}
	c.state = stateIdle
	c.results = nil
	b.replyRemoveKeyboard(msg.Chat.ID, "That wasn't one of the results. Send me a new search.")
}

func (b *Bot) handleSearchConfirm(msg *tgbotapi.Message, c *conversation) {
	c.results = nil
	if msg.Text != confirmYes {
		c.state = stateIdle
		c.chosen = playback.SearchResult{}
		b.replyRemoveKeyboard(msg.Chat.ID, "Alright, send me a new search then.")
		return
	}
	c.state = stateSubmitNote
	b.askSubmitNote(msg.Chat.ID)
}

func (b *Bot) askSubmitNote(chatID int64) {
	b.replyWithKeyboard(chatID, "Anything you want to tell along with the song?",
		[]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(skipNote)})
}

func (b *Bot) handleSubmitNote(ctx context.Context, msg *tgbotapi.Message, c *conversation) {
	content := c.chosen.DisplayTitle
	if msg.Text != skipNote && msg.Text != "" {
		content = fmt.Sprintf("%s (\"%s\")", c.chosen.DisplayTitle, msg.Text)
	}

	submission, err := b.repo.AddSubmission(ctx, store.AddSubmissionInput{
		Content: content,
		TrackID: c.chosen.TrackID,
		Sender:  senderFromMessage(msg),
	})
	c.state = stateIdle
	c.chosen = playback.SearchResult{}
	if err != nil {
		slog.Error("failed to store submission", "error", err)
		b.replyRemoveKeyboard(msg.Chat.ID, "I couldn't save that, sorry. Try again?")
		return
	}

	b.replyRemoveKeyboard(msg.Chat.ID, "Got it! I'll play it on the next ride and let you know.")
	b.notifyOperator(ctx, fmt.Sprintf("New submission from %s: %s", submission.Sender.DisplayName(), submission.Content))
	slog.Info("submission stored", "submission_id", submission.ID, "chat_id", msg.Chat.ID)
}

func (b *Bot) notifyOperator(ctx context.Context, text string) {
	operatorChatID, err := b.repo.OperatorChatID(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		slog.Error("failed to resolve operator chat", "error", err)
		return
	}
	b.reply(operatorChatID, text)
}
