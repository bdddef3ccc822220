package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/config"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type handlerFunc func(ctx context.Context, msg *tgbotapi.Message, user models.User)

type Bot struct {
	bot      botAPI
	username string
	chatID   int64
	cfg      *config.Config
	services *services.ServiceManager
	handlers map[string]handlerFunc
	today    func() string
}

func NewBot(cfg *config.Config, serviceManager *services.ServiceManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	bot := newBot(api, api.Self.UserName, cfg, serviceManager)
	logger.Log.Info("🤖 Bot initialized", zap.String("username", bot.username))
	return bot, nil
}

func newBot(api botAPI, username string, cfg *config.Config, serviceManager *services.ServiceManager) *Bot {
	bot := &Bot{
		bot:      api,
		username: username,
		chatID:   cfg.Telegram.ChatID,
		cfg:      cfg,
		services: serviceManager,
		handlers: make(map[string]handlerFunc),
		today:    utils.Today,
	}
	bot.registerHandlers()
	return bot
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/help"] = b.handleHelp
	b.handlers["/today"] = b.handleToday
	b.handlers["/check"] = b.handleCheck
	b.handlers["/fasting"] = b.handleFasting
	b.handlers["/note"] = b.handleNote
	b.handlers["/streak"] = b.handleStreak
	b.handlers["/week"] = b.handleWeek
	b.handlers["/history"] = b.handleHistory
	b.handlers["/metrics"] = b.handleMetrics
	b.handlers["/weight"] = b.handleWeight
	b.handlers["/sync"] = b.handleSync
}

// SendMessage posts HTML text to the configured chat. It satisfies
// services.NotificationSender.
func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.bot.Send(msg)
	return err
}

func (b *Bot) GetUsername() string {
	return b.username
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.Text == "" || msg.Chat == nil {
		return
	}

	if msg.Chat.ID != b.chatID {
		logger.Log.Warn("⛔ Message from foreign chat", zap.Int64("chat_id", msg.Chat.ID))
		return
	}

	user, ok := b.resolveUser(msg.From)
	if !ok {
		b.SendMessageOrLogError("⛔ Access denied")
		return
	}

	b.handleMessage(ctx, msg, user)
}

func (b *Bot) resolveUser(from *tgbotapi.User) (models.User, bool) {
	if from == nil {
		return "", false
	}
	return b.cfg.UserByTelegramID(from.ID)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message, user models.User) {
	if !msg.IsCommand() {
		return
	}

	command := commandName(msg.Text)
	handler, exists := b.handlers[command]
	if !exists {
		b.SendMessageOrLogError("❌ Unknown command. Use /help")
		return
	}

	logger.Log.Debug("💬 Command",
		zap.String("command", command),
		zap.String("user", string(user)),
	)
	handler(ctx, msg, user)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	answer := "✅"
	defer func() {
		if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, answer)); err != nil {
			logger.Log.Warn("⚠️ Callback answer failed", zap.Error(err))
		}
	}()

	if callback.Message == nil || callback.Message.Chat == nil || callback.Message.Chat.ID != b.chatID {
		answer = "⛔"
		return
	}
	user, ok := b.resolveUser(callback.From)
	if !ok {
		answer = "⛔ Access denied"
		return
	}

	owner, flag, date, ok := parseToggleCallback(callback.Data)
	if !ok {
		logger.Log.Warn("⚠️ Unknown callback", zap.String("data", callback.Data))
		answer = "❌"
		return
	}
	if owner != user {
		answer = "⛔ Not your checklist"
		return
	}

	entry, err := b.services.Checklist.Toggle(ctx, user, date, flag)
	if err != nil {
		logger.Log.Error("❌ Toggle failed",
			zap.String("user", string(user)),
			zap.String("flag", string(flag)),
			zap.Error(err),
		)
		answer = "❌ " + errorText(err)
		return
	}
	answer = fmt.Sprintf("%s %s", utils.CheckMark(entry.Checklist.Get(flag)), utils.GetFlagName(flag))

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		b.chatID,
		callback.Message.MessageID,
		FormatDay(b.services.DisplayName(user), entry, b.services.Rules()),
		checklistKeyboard(entry),
	)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.bot.Send(edit); err != nil {
		logger.Log.Warn("⚠️ Keyboard refresh failed", zap.Error(err))
	}
}
