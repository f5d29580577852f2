package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"paperforge/internal/paper"
	"paperforge/internal/premium"
	"paperforge/internal/render"
)

// Conversation steps.
type step int

const (
	stepIdle step = iota
	stepTitle
	stepAuthor
	stepPages
)

const (
	minPages = 4
	maxPages = 20
)

// session is the per-chat conversation state.
type session struct {
	step   step
	title  string
	author paper.Author
}

// Bot drives the three-step conversation (title, author block, page count),
// gates large page counts behind redeemed keys, runs the generation pipeline
// and delivers the rendered paper as a document.
type Bot struct {
	api       *tgbotapi.BotAPI
	generator *paper.Generator
	keys      *premium.Store
	log       *zap.Logger

	adminID   int64
	freeLimit int
	humanize  bool

	mu       sync.Mutex
	sessions map[int64]*session
}

type Options struct {
	AdminID       int64
	FreePageLimit int
	Humanize      bool
}

func New(token string, generator *paper.Generator, keys *premium.Store, log *zap.Logger, opts Options) (*Bot, error) {
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if keys == nil {
		return nil, errors.New("key store is required")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	freeLimit := opts.FreePageLimit
	if freeLimit <= 0 {
		freeLimit = minPages
	}
	return &Bot{
		api:       api,
		generator: generator,
		keys:      keys,
		log:       log,
		adminID:   opts.AdminID,
		freeLimit: freeLimit,
		humanize:  opts.Humanize,
		sessions:  make(map[int64]*session),
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot running", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	b.mu.Lock()
	s := b.sessions[msg.Chat.ID]
	b.mu.Unlock()
	if s == nil {
		b.reply(msg.Chat.ID, "Send /start to generate a paper.")
		return
	}

	switch s.step {
	case stepTitle:
		b.receiveTitle(msg, s)
	case stepAuthor:
		b.receiveAuthor(msg, s)
	case stepPages:
		b.receivePages(ctx, msg, s)
	default:
		b.reply(msg.Chat.ID, "Send /start to generate a paper.")
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.mu.Lock()
		b.sessions[msg.Chat.ID] = &session{step: stepTitle}
		b.mu.Unlock()
		b.reply(msg.Chat.ID,
			"👋 <b>Welcome to the Research Paper Generator!</b>\n\n"+
				"I'll generate a fully formatted IEEE-style paper for you.\n\n"+
				"📝 <b>Step 1 of 3:</b> Please send me your <b>paper title</b>.")
	case "cancel":
		b.mu.Lock()
		delete(b.sessions, msg.Chat.ID)
		b.mu.Unlock()
		b.reply(msg.Chat.ID, "❌ Cancelled. Send /start to begin again.")
	case "help":
		b.reply(msg.Chat.ID, helpText)
	case "redeem":
		b.redeemKey(ctx, msg)
	case "genkey":
		b.adminGenerateKey(ctx, msg)
	case "keys":
		b.adminListKeys(ctx, msg)
	case "delkey":
		b.adminDeleteKey(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send /help for usage.")
	}
}

func (b *Bot) receiveTitle(msg *tgbotapi.Message, s *session) {
	title := strings.TrimSpace(msg.Text)
	if len(title) < 5 {
		b.reply(msg.Chat.ID, "⚠️ That title seems too short. Please enter a more descriptive paper title.")
		return
	}
	s.title = title
	s.step = stepAuthor
	b.reply(msg.Chat.ID,
		"✅ Title saved!\n\n"+
			"👤 <b>Step 2 of 3:</b> Send your <b>author details</b> — paste each on a new line:\n\n"+
			"<code>Your Name\nDepartment Name\nCollege / University\nCity, Country\nyour@email.com</code>")
}

func (b *Bot) receiveAuthor(msg *tgbotapi.Message, s *session) {
	if strings.TrimSpace(msg.Text) == "" {
		b.reply(msg.Chat.ID, "⚠️ Please send your author details.")
		return
	}
	s.author = parseAuthorBlock(msg.Text)
	s.step = stepPages
	b.reply(msg.Chat.ID, fmt.Sprintf(
		"✅ Author details saved!\n"+
			"👤 <b>%s</b>\n🏫 %s\n🏛 %s\n📍 %s\n📧 %s\n\n"+
			"📄 <b>Step 3 of 3:</b> How many pages should the paper be?\n"+
			"<i>(Enter a number between %d and %d)</i>",
		html.EscapeString(s.author.Name), html.EscapeString(s.author.Department),
		html.EscapeString(s.author.University), html.EscapeString(s.author.City),
		html.EscapeString(s.author.Email), minPages, maxPages))
}

func (b *Bot) receivePages(ctx context.Context, msg *tgbotapi.Message, s *session) {
	pages, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil {
		b.reply(msg.Chat.ID, "⚠️ Please enter a valid number (e.g., 6, 8, 10).")
		return
	}
	if pages < minPages || pages > maxPages {
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"⚠️ Please enter a number between <b>%d</b> and <b>%d</b> pages.", minPages, maxPages))
		return
	}

	if pages > b.freeLimit {
		ok, err := b.keys.IsPremium(ctx, msg.From.ID)
		if err != nil {
			b.log.Error("premium lookup failed", zap.Error(err))
			b.reply(msg.Chat.ID, "❌ Something went wrong. Please try again.")
			return
		}
		if !ok {
			b.reply(msg.Chat.ID, fmt.Sprintf(
				"🔒 Papers above %d pages require a premium key.\n"+
					"Redeem one with <code>/redeem YOUR-KEY</code>, or pick %d pages or fewer.",
				b.freeLimit, b.freeLimit))
			return
		}
	}

	b.mu.Lock()
	delete(b.sessions, msg.Chat.ID)
	b.mu.Unlock()

	b.generate(ctx, msg, s, pages)
}

func (b *Bot) generate(ctx context.Context, msg *tgbotapi.Message, s *session, pages int) {
	status := tgbotapi.NewMessage(msg.Chat.ID, statusText(html.EscapeString(s.title), progressLabel(0), 0))
	status.ParseMode = tgbotapi.ModeHTML
	statusMsg, err := b.api.Send(status)
	if err != nil {
		b.log.Error("failed to send status message", zap.Error(err))
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.animateProgress(msg.Chat.ID, statusMsg.MessageID, html.EscapeString(s.title), stop)
	}()

	req := paper.Request{Title: s.title, Pages: pages, Humanize: b.humanize}
	doc, err := b.generator.Generate(ctx, req, s.author.Name, s.author.University)

	close(stop)
	<-done

	if err != nil {
		b.log.Error("generation failed", zap.Error(err))
		b.editStatus(msg.Chat.ID, statusMsg.MessageID, fmt.Sprintf(
			"❌ <b>An error occurred while generating your paper.</b>\n\n"+
				"Error: <code>%s</code>\n\nPlease try again with /start.",
			html.EscapeString(truncate(err.Error(), 300))))
		return
	}

	// The user's verified byline always wins over whatever was generated.
	doc.Authors = []paper.Author{s.author}

	out, err := render.HTML(doc)
	if err != nil {
		b.log.Error("render failed", zap.Error(err))
		b.editStatus(msg.Chat.ID, statusMsg.MessageID,
			"❌ <b>Rendering failed.</b> Please try again with /start.")
		return
	}

	b.editStatus(msg.Chat.ID, statusMsg.MessageID,
		statusText(html.EscapeString(s.title), "✅ Complete!", 100))

	_, _ = b.api.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, statusMsg.MessageID))

	file := tgbotapi.FileBytes{Name: paperFilename(s.title), Bytes: out}
	docMsg := tgbotapi.NewDocument(msg.Chat.ID, file)
	docMsg.Caption = fmt.Sprintf(
		"✅ <b>Your research paper is ready!</b>\n\n"+
			"📌 <b>Title:</b> %s\n📄 <b>Pages:</b> ~%d\n\n"+
			"🔁 Send /start to generate another paper.",
		html.EscapeString(s.title), pages)
	docMsg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(docMsg); err != nil {
		b.log.Error("failed to send document", zap.Error(err))
	}
}

func (b *Bot) redeemKey(ctx context.Context, msg *tgbotapi.Message) {
	key := strings.TrimSpace(msg.CommandArguments())
	if key == "" {
		b.reply(msg.Chat.ID, "Usage: <code>/redeem YOUR-KEY</code>")
		return
	}
	err := b.keys.Redeem(ctx, key, msg.From.ID)
	switch {
	case err == nil:
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"✅ Premium activated! You can now generate up to %d pages.", maxPages))
	case errors.Is(err, premium.ErrInvalidKey):
		b.reply(msg.Chat.ID, "❌ Invalid key. Please check and try again.")
	case errors.Is(err, premium.ErrAlreadyRedeemed):
		b.reply(msg.Chat.ID, "⚠️ You already redeemed this key.")
	case errors.Is(err, premium.ErrKeyUsed):
		b.reply(msg.Chat.ID, "❌ This key has already been used.")
	default:
		b.log.Error("redeem failed", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Something went wrong. Please try again.")
	}
}

func (b *Bot) adminGenerateKey(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	key, err := b.keys.GenerateKey(ctx)
	if err != nil {
		b.log.Error("key generation failed", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Key generation failed.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🔑 <code>%s</code>", key))
}

func (b *Bot) adminListKeys(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	keys, err := b.keys.ListKeys(ctx)
	if err != nil {
		b.log.Error("key listing failed", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Could not list keys.")
		return
	}
	if len(keys) == 0 {
		b.reply(msg.Chat.ID, "No keys yet. Use /genkey to mint one.")
		return
	}
	var sb strings.Builder
	for _, k := range keys {
		if k.Used {
			fmt.Fprintf(&sb, "🔒 <code>%s</code> — used by %d\n", k.Key, k.UsedBy)
		} else {
			fmt.Fprintf(&sb, "🔑 <code>%s</code> — unused\n", k.Key)
		}
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) adminDeleteKey(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	key := strings.TrimSpace(msg.CommandArguments())
	if key == "" {
		b.reply(msg.Chat.ID, "Usage: <code>/delkey KEY</code>")
		return
	}
	found, err := b.keys.DeleteKey(ctx, key)
	if err != nil {
		b.log.Error("key deletion failed", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Could not delete the key.")
		return
	}
	if !found {
		b.reply(msg.Chat.ID, "❌ No such key.")
		return
	}
	b.reply(msg.Chat.ID, "🗑 Key deleted.")
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.adminID != 0 && userID == b.adminID
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) editStatus(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	_, _ = b.api.Send(edit)
}

// paperFilename derives a filesystem-safe name from the title.
func paperFilename(title string) string {
	var sb strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	safe := strings.TrimSpace(sb.String())
	if len(safe) > 50 {
		safe = strings.TrimSpace(safe[:50])
	}
	return "Paper_" + strings.ReplaceAll(safe, " ", "_") + ".html"
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

const helpText = "📖 <b>Research Paper Generator Bot</b>\n\n" +
	"<b>Commands:</b>\n" +
	"/start — Generate a new paper\n" +
	"/redeem KEY — Activate premium page counts\n" +
	"/cancel — Cancel current operation\n" +
	"/help — Show this message\n\n" +
	"<b>How it works:</b>\n" +
	"1. Send /start\n" +
	"2. Enter your paper title\n" +
	"3. Enter your name and college\n" +
	"4. Enter desired page count (4–20)\n" +
	"5. Receive your formatted paper! 🎓"
