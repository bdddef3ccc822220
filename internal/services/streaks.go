package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/monitoring"
	"github.com/bobkonczak/health-tracking-pro/internal/scoring"
)

type StreakService struct {
	repository *database.Repository
	rules      scoring.Rules
}

func NewStreakService(repo *database.Repository, rules scoring.Rules) *StreakService {
	return &StreakService{
		repository: repo,
		rules:      rules,
	}
}

// Recompute rebuilds the user's streak record from stored history as of
// today and persists it. The best streak never decreases.
func (ss *StreakService) Recompute(ctx context.Context, user models.User, today string) (models.StreakRecord, error) {
	if err := validateUserDate(user, today); err != nil {
		return models.StreakRecord{}, err
	}

	history, err := ss.repository.GetDayTotals(ctx, user, today)
	if err != nil {
		return models.StreakRecord{}, unavailable("load history", err)
	}
	prev, err := ss.repository.GetStreak(ctx, user)
	if err != nil {
		return models.StreakRecord{}, unavailable("load streak", err)
	}

	current := ss.rules.ComputeStreak(history, today)
	lastActivity := ""
	if len(history) > 0 {
		lastActivity = history[0].Date
	}

	rec := scoring.NextStreakRecord(prev, user, current, lastActivity)
	if longest := ss.rules.LongestRun(history); longest > rec.BestStreak {
		rec.BestStreak = longest
	}

	if err := ss.repository.UpsertStreak(ctx, rec); err != nil {
		return models.StreakRecord{}, unavailable("save streak", err)
	}

	monitoring.CurrentStreak.WithLabelValues(string(user)).Set(float64(rec.CurrentStreak))
	logger.Log.Debug("🔥 Streak recomputed",
		zap.String("user", string(user)),
		zap.Int("current", rec.CurrentStreak),
		zap.Int("best", rec.BestStreak),
	)
	return rec, nil
}

// Get returns the stored record, or a zero record for a user without one.
func (ss *StreakService) Get(ctx context.Context, user models.User) (models.StreakRecord, error) {
	if err := validateUser(user); err != nil {
		return models.StreakRecord{}, err
	}
	rec, err := ss.repository.GetStreak(ctx, user)
	if err != nil {
		return models.StreakRecord{}, unavailable("load streak", err)
	}
	if rec == nil {
		return models.StreakRecord{User: user}, nil
	}
	return *rec, nil
}
