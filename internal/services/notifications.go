package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/monitoring"
	"github.com/bobkonczak/health-tracking-pro/internal/scoring"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// NotificationSender delivers a chat message. Text may contain Telegram HTML.
type NotificationSender interface {
	SendMessage(text string) error
}

// Reminder is one entry of the daily reminder schedule; At is local HH:MM.
type Reminder struct {
	At      string
	Kind    string
	Message string
}

var DefaultReminders = []Reminder{
	{At: "07:00", Kind: "morning", Message: "🌅 Morning routine time!"},
	{At: "12:00", Kind: "supplements", Message: "💊 Lunch supplements!"},
	{At: "18:30", Kind: "last_meal", Message: "🍽️ Last meal before 19:00 for full fasting points!"},
	{At: "21:00", Kind: "checklist", Message: "✅ Fill in today's checklist!"},
}

const WeeklyResultsAt = "20:00"

type NotificationService struct {
	sender      NotificationSender
	checklist   *ChecklistService
	competition *CompetitionService
	streaks     *StreakService
	rules       scoring.Rules
	names       func(models.User) string
	today       func() string
}

func NewNotificationService(sender NotificationSender, sm *ServiceManager) *NotificationService {
	return &NotificationService{
		sender:      sender,
		checklist:   sm.Checklist,
		competition: sm.Competition,
		streaks:     sm.Streak,
		rules:       sm.rules,
		names:       sm.names,
		today:       utils.Today,
	}
}

// SendReminder pushes a scheduled reminder. The evening checklist reminder
// also names whoever has not submitted today.
func (ns *NotificationService) SendReminder(ctx context.Context, r Reminder) {
	var message strings.Builder
	message.WriteString("⏰ <b>" + r.Message + "</b>")

	if r.Kind == "checklist" {
		today := ns.today()
		var missing []string
		for _, u := range []models.User{models.UserA, models.UserB} {
			entry, err := ns.checklist.GetDay(ctx, u, today)
			if err != nil {
				logger.Log.Warn("⚠️ Could not load entry for reminder", zap.String("user", string(u)), zap.Error(err))
				continue
			}
			if entry.CreatedAt.IsZero() {
				missing = append(missing, ns.names(u))
			}
		}
		if len(missing) > 0 {
			message.WriteString("\n\nStill waiting for: " + strings.Join(missing, ", "))
		}
	}

	ns.send(r.Kind, message.String())
}

// SendDailySummary reports both users' scores for today.
func (ns *NotificationService) SendDailySummary(ctx context.Context) {
	today := ns.today()

	var message strings.Builder
	message.WriteString(fmt.Sprintf("📊 <b>Daily summary %s</b>\n\n", today))

	for _, u := range []models.User{models.UserA, models.UserB} {
		entry, err := ns.checklist.GetDay(ctx, u, today)
		if err != nil {
			logger.Log.Warn("⚠️ Could not load entry for summary", zap.String("user", string(u)), zap.Error(err))
			message.WriteString(fmt.Sprintf("%s: data unavailable\n", ns.names(u)))
			continue
		}
		message.WriteString(FormatDayLine(ns.names(u), entry, ns.rules))
		message.WriteString("\n")
	}

	ns.send("daily_summary", message.String())
}

// SendWeeklyResults announces the standings of the week containing today.
func (ns *NotificationService) SendWeeklyResults(ctx context.Context) {
	report, err := ns.competition.Standings(ctx, ns.today())
	if err != nil {
		logger.Log.Error("❌ Could not compute weekly standings", zap.Error(err))
		return
	}
	ns.send("weekly_results", FormatStandings(report, ns.names))
}

// RecomputeStreaks refreshes both persisted streaks so a missed day breaks
// them even when nobody submits anything.
func (ns *NotificationService) RecomputeStreaks(ctx context.Context) {
	today := ns.today()
	for _, u := range []models.User{models.UserA, models.UserB} {
		if _, err := ns.streaks.Recompute(ctx, u, today); err != nil {
			logger.Log.Error("❌ Streak recompute failed", zap.String("user", string(u)), zap.Error(err))
		}
	}
}

func (ns *NotificationService) send(kind, text string) {
	if err := ns.sender.SendMessage(text); err != nil {
		monitoring.NotificationsSent.WithLabelValues(kind, "error").Inc()
		logger.Log.Error("❌ Notification failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	monitoring.NotificationsSent.WithLabelValues(kind, "ok").Inc()
	logger.Log.Info("📨 Notification sent", zap.String("kind", kind))
}

// FormatDayLine renders one user's day as a single summary line.
func FormatDayLine(name string, e *models.DailyEntry, rules scoring.Rules) string {
	if e.CreatedAt.IsZero() {
		return fmt.Sprintf("⬜ <b>%s</b>: nothing submitted", name)
	}
	tier := rules.Tier(e.DailyPoints)
	return fmt.Sprintf("%s <b>%s</b>: %d/%d pts +%d bonus = <b>%d</b> (🔥 %d)",
		utils.GetTierEmoji(string(tier)), name,
		e.DailyPoints, rules.MaxDailyPoints(), e.BonusPoints, e.TotalPoints, e.Streak)
}

// FormatStandings renders a competition report for the chat.
func FormatStandings(r *CompetitionReport, names func(models.User) string) string {
	var b strings.Builder
	label := "Week"
	if r.Scope == "challenge" {
		label = "Challenge"
	}
	b.WriteString(fmt.Sprintf("🏆 <b>%s %s..%s</b>", label, r.Window.Start, r.Window.End))
	if r.ChallengeWeek > 0 {
		b.WriteString(fmt.Sprintf(" (challenge week %d)", r.ChallengeWeek))
	}
	b.WriteString("\n\n")

	for _, u := range []models.User{models.UserA, models.UserB} {
		b.WriteString(fmt.Sprintf("%s: <b>%d</b> pts\n", names(u), r.Totals[u]))
	}
	b.WriteString("\n")

	if u, ok := r.Leader.User(); ok {
		b.WriteString(fmt.Sprintf("👑 %s leads by %d\n", names(u), r.Margin))
	} else {
		b.WriteString("🤝 Tied\n")
	}

	categories := []struct {
		category scoring.Category
		label    string
	}{
		{scoring.CategorySteps, "🚶 Steps"},
		{scoring.CategoryTraining, "🏋️ Training"},
		{scoring.CategoryStreak, "🔥 Streak"},
		{scoring.CategoryPerfectDays, "💯 Perfect days"},
	}
	for _, c := range categories {
		winner := "tie"
		if u, ok := r.Champions[c.category].User(); ok {
			winner = names(u)
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", c.label, winner))
	}

	if r.DaysLeft > 0 {
		b.WriteString(fmt.Sprintf("\n⏳ %d days left", r.DaysLeft))
	}
	return b.String()
}
