package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/health"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/scoring"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

const helpText = `💪 <b>Health Tracking Pro</b>

/today - today's checklist with toggles
/check [flag] - toggle a flag (sugar, alcohol, training, morning, sauna, steps, supplements, weight, calories)
/fasting [HH:MM] - time of the last meal, "clear" to remove
/note [text] - note for today
/streak - current and best streaks
/week - this week's standings
/history [days] - your last days, 7 by default
/metrics - latest biometrics
/weight [kg] - log today's weight
/sync key=value ... - log metrics, e.g. /sync steps=11200 fat=19.5
/help - this message`

func (b *Bot) SendMessageOrLogError(message string) {
	if err := b.SendMessage(message); err != nil {
		logger.Log.Error("❌ Failed to send message", zap.Error(err))
	}
}

// errorText is the user-facing part of a service error.
func errorText(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": ")
	case errors.Is(err, services.ErrDataUnavailable):
		return "data is unavailable right now, try again later"
	default:
		return "something went wrong"
	}
}

// FormatDay renders a user's checklist with per-flag marks and the score.
func FormatDay(name string, e *models.DailyEntry, rules scoring.Rules) string {
	var b strings.Builder
	tier := rules.Tier(e.DailyPoints)

	b.WriteString(fmt.Sprintf("📅 <b>%s, %s</b>\n\n", name, e.Date))
	for _, f := range models.Flags {
		b.WriteString(fmt.Sprintf("%s %s\n", utils.CheckMark(e.Checklist.Get(f)), utils.GetFlagName(f)))
	}

	fasting := "not logged"
	if e.Checklist.FastingTime != "" {
		fasting = fmt.Sprintf("last meal %s, +%d", e.Checklist.FastingTime, e.Checklist.FastingPoints)
	}
	b.WriteString(fmt.Sprintf("⏱ Fasting: %s\n\n", fasting))

	b.WriteString(fmt.Sprintf("%s <b>%d/%d</b> pts +%d bonus = <b>%d</b>\n",
		utils.GetTierEmoji(string(tier)), e.DailyPoints, rules.MaxDailyPoints(), e.BonusPoints, e.TotalPoints))
	b.WriteString(fmt.Sprintf("🔥 Streak: %d", e.Streak))
	if e.Notes != "" {
		b.WriteString(fmt.Sprintf("\n📝 <i>%s</i>", escape(e.Notes)))
	}
	return b.String()
}

// FormatSnapshot renders the latest biometric readings.
func FormatSnapshot(name string, s health.MetricSnapshot) string {
	if s.Date == "" {
		return fmt.Sprintf("📭 No biometric data for %s yet", name)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>%s, %s</b>", name, s.Date))
	if s.DataSource != "" {
		b.WriteString(fmt.Sprintf(" (%s)", s.DataSource))
	}
	b.WriteString("\n\n")

	for _, m := range health.Metrics {
		r := s.Metrics[m]
		if r.Value == nil {
			continue
		}
		line := fmt.Sprintf("%s: %s %s", m, formatValue(*r.Value), r.Unit)
		if r.Trend != nil {
			line += fmt.Sprintf(" (%+.1f)", *r.Trend)
		}
		b.WriteString(line + "\n")
	}

	if s.Stale && s.DaysOld != nil {
		b.WriteString(fmt.Sprintf("\n⚠️ Latest data is %d days old", *s.DaysOld))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHistory lists one line per stored day, newest first.
func FormatHistory(name string, entries []models.DailyEntry, days int) string {
	if len(entries) == 0 {
		return fmt.Sprintf("📭 No entries for %s in the last %d days", name, days)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗓 <b>%s, last %d days</b>\n\n", name, days))
	sum := 0
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		sum += e.TotalPoints
		b.WriteString(fmt.Sprintf("%s: %d pts (🔥 %d)\n", e.Date, e.TotalPoints, e.Streak))
	}
	b.WriteString(fmt.Sprintf("\nTotal: <b>%d</b>", sum))
	return b.String()
}

func FormatStreaks(names func(models.User) string, records ...models.StreakRecord) string {
	var b strings.Builder
	b.WriteString("🔥 <b>Streaks</b>\n\n")
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s: %d days (best %d)\n", names(r.User), r.CurrentStreak, r.BestStreak))
	}
	return strings.TrimRight(b.String(), "\n")
}

// checklistKeyboard has one toggle button per flag, two per row.
func checklistKeyboard(e *models.DailyEntry) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, f := range models.Flags {
		label := utils.CheckMark(e.Checklist.Get(f)) + " " + utils.GetFlagName(f)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, toggleCallback(e.User, f, e.Date)))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
