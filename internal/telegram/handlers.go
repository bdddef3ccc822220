package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/health"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// telegramSource tags samples entered by hand in the chat.
const telegramSource = "telegram"

func (b *Bot) handleStart(_ context.Context, _ *tgbotapi.Message, user models.User) {
	b.SendMessageOrLogError(fmt.Sprintf("👋 Hi %s!\n\n%s", b.services.DisplayName(user), helpText))
}

func (b *Bot) handleHelp(_ context.Context, _ *tgbotapi.Message, _ models.User) {
	b.SendMessageOrLogError(helpText)
}

func (b *Bot) handleToday(ctx context.Context, _ *tgbotapi.Message, user models.User) {
	entry, err := b.services.Checklist.GetDay(ctx, user, b.today())
	if err != nil {
		b.replyError("load today's checklist", err)
		return
	}
	b.sendDay(user, entry)
}

func (b *Bot) handleCheck(ctx context.Context, msg *tgbotapi.Message, user models.User) {
	args := commandArgs(msg.Text)
	if args == "" {
		b.handleToday(ctx, msg, user)
		return
	}

	flag, ok := ParseFlag(args)
	if !ok {
		b.SendMessageOrLogError(fmt.Sprintf("❌ Unknown flag %q. Use /help for the list", escape(args)))
		return
	}

	entry, err := b.services.Checklist.Toggle(ctx, user, b.today(), flag)
	if err != nil {
		b.replyError("toggle flag", err)
		return
	}
	b.sendDay(user, entry)
}

func (b *Bot) handleFasting(ctx context.Context, msg *tgbotapi.Message, user models.User) {
	args := commandArgs(msg.Text)
	if args == "" {
		b.SendMessageOrLogError("❌ Format: /fasting HH:MM (or /fasting clear)")
		return
	}
	if strings.EqualFold(args, "clear") {
		args = ""
	}

	entry, err := b.services.Checklist.SetFasting(ctx, user, b.today(), args)
	if err != nil {
		b.replyError("set fasting", err)
		return
	}
	b.sendDay(user, entry)
}

func (b *Bot) handleNote(ctx context.Context, msg *tgbotapi.Message, user models.User) {
	note := commandArgs(msg.Text)
	if note == "" {
		b.SendMessageOrLogError("❌ Format: /note [text]")
		return
	}

	if _, err := b.services.Checklist.SetNote(ctx, user, b.today(), note); err != nil {
		b.replyError("save note", err)
		return
	}
	b.SendMessageOrLogError("📝 Note saved")
}

func (b *Bot) handleStreak(ctx context.Context, _ *tgbotapi.Message, _ models.User) {
	var records []models.StreakRecord
	for _, u := range []models.User{models.UserA, models.UserB} {
		rec, err := b.services.Streak.Get(ctx, u)
		if err != nil {
			b.replyError("load streak", err)
			return
		}
		records = append(records, rec)
	}
	b.SendMessageOrLogError(FormatStreaks(b.services.DisplayName, records...))
}

func (b *Bot) handleWeek(ctx context.Context, _ *tgbotapi.Message, _ models.User) {
	report, err := b.services.Competition.Standings(ctx, b.today())
	if err != nil {
		b.replyError("load standings", err)
		return
	}
	b.SendMessageOrLogError(services.FormatStandings(report, b.services.DisplayName))
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message, user models.User) {
	days, err := ParseHistoryDays(commandArgs(msg.Text))
	if err != nil {
		b.SendMessageOrLogError("❌ " + err.Error())
		return
	}

	today := b.today()
	entries, err := b.services.Checklist.Entries(ctx, user, utils.AddDays(today, -(days-1)), today)
	if err != nil {
		b.replyError("load history", err)
		return
	}
	b.SendMessageOrLogError(FormatHistory(b.services.DisplayName(user), entries, days))
}

func (b *Bot) handleMetrics(ctx context.Context, _ *tgbotapi.Message, user models.User) {
	snap, err := b.services.Health.Snapshot(ctx, user, b.today())
	if err != nil {
		b.replyError("load metrics", err)
		return
	}
	b.SendMessageOrLogError(FormatSnapshot(b.services.DisplayName(user), snap))
}

func (b *Bot) handleWeight(ctx context.Context, msg *tgbotapi.Message, user models.User) {
	args := strings.TrimSuffix(strings.ToLower(commandArgs(msg.Text)), "kg")
	kg, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(args), ",", ".", 1), 64)
	if err != nil || kg <= 0 {
		b.SendMessageOrLogError("❌ Format: /weight 81.4")
		return
	}

	sample := models.BiometricSample{
		Date:   b.today(),
		User:   user,
		Weight: &kg,
		Source: telegramSource,
	}
	if _, err := b.services.Health.MergeSample(ctx, sample); err != nil {
		b.replyError("log weight", err)
		return
	}
	b.SendMessageOrLogError(fmt.Sprintf("⚖️ Weight logged: %s kg", formatValue(kg)))
}

func (b *Bot) handleSync(ctx context.Context, msg *tgbotapi.Message, user models.User) {
	sample, err := ParseSync(commandArgs(msg.Text), b.today())
	if err != nil {
		b.SendMessageOrLogError("❌ " + escape(err.Error()) + "\nFormat: /sync steps=11200 weight=81.4 fat=19.5")
		return
	}
	sample.User = user
	if sample.Source == "" {
		sample.Source = telegramSource
	}

	saved, err := b.services.Health.MergeSample(ctx, sample)
	if err != nil {
		b.replyError("sync sample", err)
		return
	}

	var logged []string
	for _, m := range health.Metrics {
		if v := health.Value(saved, m); v != nil {
			logged = append(logged, fmt.Sprintf("%s=%s", m, formatValue(*v)))
		}
	}
	b.SendMessageOrLogError(fmt.Sprintf("✅ Synced %s: %s", saved.Date, strings.Join(logged, ", ")))
}

func (b *Bot) sendDay(user models.User, entry *models.DailyEntry) {
	msg := tgbotapi.NewMessage(b.chatID, FormatDay(b.services.DisplayName(user), entry, b.services.Rules()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = checklistKeyboard(entry)
	if _, err := b.bot.Send(msg); err != nil {
		logger.Log.Error("❌ Failed to send checklist", zap.Error(err))
	}
}

func (b *Bot) replyError(op string, err error) {
	if !errors.Is(err, services.ErrInvalidInput) {
		logger.Log.Error("❌ Command failed", zap.String("op", op), zap.Error(err))
	}
	b.SendMessageOrLogError("❌ " + escape(errorText(err)))
}
