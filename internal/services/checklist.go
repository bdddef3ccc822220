package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/health"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/monitoring"
	"github.com/bobkonczak/health-tracking-pro/internal/scoring"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

const maxNoteLength = 500

type ChecklistService struct {
	repository *database.Repository
	rules      scoring.Rules
	streaks    *StreakService
	today      func() string
}

func NewChecklistService(repo *database.Repository, rules scoring.Rules, streaks *StreakService) *ChecklistService {
	return &ChecklistService{
		repository: repo,
		rules:      rules,
		streaks:    streaks,
		today:      utils.Today,
	}
}

// SubmitDay scores a checklist and stores it as the user's entry for date,
// replacing any earlier submission. Flags the day's biometric sample proves
// are promoted first. The bonus uses the streak as it stood the day before;
// the stored streak includes the day itself. The persisted streak record is
// refreshed only after the entry write succeeded.
func (cs *ChecklistService) SubmitDay(ctx context.Context, user models.User, date string, c models.Checklist, notes string) (*models.DailyEntry, error) {
	if err := validateUserDate(user, date); err != nil {
		return nil, err
	}
	c, err := cs.normalizeFasting(c)
	if err != nil {
		return nil, err
	}
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > maxNoteLength {
		return nil, invalidf("note longer than %d characters", maxNoteLength)
	}

	sample, err := cs.repository.GetSample(ctx, user, date)
	if err != nil {
		return nil, unavailable("load sample", err)
	}
	c = health.Reconcile(c, sample, cs.rules.StepsGoal)

	before, err := cs.repository.GetDayTotals(ctx, user, utils.AddDays(date, -1))
	if err != nil {
		return nil, unavailable("load history", err)
	}

	daily := cs.rules.Score(c)
	streakBefore := cs.rules.ComputeStreak(before, date)
	total := cs.rules.Total(daily, streakBefore)
	withDay := append([]models.DayTotal{{Date: date, TotalPoints: total}}, before...)

	entry := models.DailyEntry{
		Date:        date,
		User:        user,
		Checklist:   c,
		DailyPoints: daily,
		BonusPoints: total - daily,
		TotalPoints: total,
		Streak:      cs.rules.ComputeStreak(withDay, date),
		Notes:       notes,
	}
	if err := cs.repository.UpsertEntry(ctx, entry); err != nil {
		return nil, unavailable("save entry", err)
	}

	tier := cs.rules.Tier(daily)
	monitoring.ScoredDays.WithLabelValues(string(user), string(tier)).Inc()
	logger.Log.Info("📝 Day scored",
		zap.String("user", string(user)),
		zap.String("date", date),
		zap.Int("daily", daily),
		zap.Int("bonus", entry.BonusPoints),
		zap.String("tier", string(tier)),
	)

	asOf := cs.today()
	if date > asOf {
		asOf = date
	}
	if _, err := cs.streaks.Recompute(ctx, user, asOf); err != nil {
		return nil, err
	}

	saved, err := cs.repository.GetEntry(ctx, user, date)
	if err != nil {
		return nil, unavailable("reload entry", err)
	}
	if saved == nil {
		return &entry, nil
	}
	return saved, nil
}

// GetDay returns the stored entry, or an empty zero-point entry when the
// user has not submitted anything for date.
func (cs *ChecklistService) GetDay(ctx context.Context, user models.User, date string) (*models.DailyEntry, error) {
	if err := validateUserDate(user, date); err != nil {
		return nil, err
	}
	entry, err := cs.repository.GetEntry(ctx, user, date)
	if err != nil {
		return nil, unavailable("load entry", err)
	}
	if entry == nil {
		return &models.DailyEntry{Date: date, User: user}, nil
	}
	return entry, nil
}

// Toggle flips one boolean flag and rescores the day. steps_10k and
// weighed_in stay set while the day's sample still backs them.
func (cs *ChecklistService) Toggle(ctx context.Context, user models.User, date string, flag models.Flag) (*models.DailyEntry, error) {
	day, err := cs.GetDay(ctx, user, date)
	if err != nil {
		return nil, err
	}
	c, ok := day.Checklist.Set(flag, !day.Checklist.Get(flag))
	if !ok {
		return nil, invalidf("unknown flag %q", flag)
	}
	return cs.SubmitDay(ctx, user, date, c, day.Notes)
}

// SetFasting records the time of the last meal; an empty time clears it.
func (cs *ChecklistService) SetFasting(ctx context.Context, user models.User, date, hhmm string) (*models.DailyEntry, error) {
	day, err := cs.GetDay(ctx, user, date)
	if err != nil {
		return nil, err
	}
	c, err := cs.rules.WithFasting(day.Checklist, hhmm)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	return cs.SubmitDay(ctx, user, date, c, day.Notes)
}

func (cs *ChecklistService) SetNote(ctx context.Context, user models.User, date, note string) (*models.DailyEntry, error) {
	day, err := cs.GetDay(ctx, user, date)
	if err != nil {
		return nil, err
	}
	return cs.SubmitDay(ctx, user, date, day.Checklist, note)
}

// Entries lists a user's stored entries inside [start, end].
func (cs *ChecklistService) Entries(ctx context.Context, user models.User, start, end string) ([]models.DailyEntry, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	entries, err := cs.repository.GetEntries(ctx, user, start, end)
	if err != nil {
		return nil, unavailable("load entries", err)
	}
	return entries, nil
}

// normalizeFasting derives the fasting points from the recorded time, so a
// caller can never submit points that disagree with it.
func (cs *ChecklistService) normalizeFasting(c models.Checklist) (models.Checklist, error) {
	if c.FastingTime != "" {
		out, err := cs.rules.WithFasting(c, c.FastingTime)
		if err != nil {
			return c, invalidf("%v", err)
		}
		return out, nil
	}
	if c.FastingPoints == 0 {
		return c, nil
	}
	for _, tier := range cs.rules.Fasting {
		if tier.Points == c.FastingPoints {
			return c, nil
		}
	}
	return c, invalidf("fasting points %d match no fasting tier", c.FastingPoints)
}

func validateRange(start, end string) error {
	if err := validateDate(start); err != nil {
		return err
	}
	if err := validateDate(end); err != nil {
		return err
	}
	if start > end {
		return invalidf("start date %s is after end date %s", start, end)
	}
	return nil
}
