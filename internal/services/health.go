package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/health"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/monitoring"
	"github.com/bobkonczak/health-tracking-pro/internal/scoring"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

const (
	DefaultSource  = "manual"
	DefaultHistory = 30
	MaxHistoryDays = 366
)

type HealthService struct {
	repository     *database.Repository
	rules          scoring.Rules
	checklist      *ChecklistService
	staleAfterDays int
	now            func() time.Time
}

func NewHealthService(repo *database.Repository, rules scoring.Rules, checklist *ChecklistService, staleAfterDays int) *HealthService {
	return &HealthService{
		repository:     repo,
		rules:          rules,
		checklist:      checklist,
		staleAfterDays: staleAfterDays,
		now:            time.Now,
	}
}

// SyncSample stores a day of measurements, replacing an earlier sample for
// the same day. When the user already submitted that day, the entry is
// reconciled and rescored against the new sample.
func (hs *HealthService) SyncSample(ctx context.Context, s models.BiometricSample) (*models.BiometricSample, error) {
	if err := validateUserDate(s.User, s.Date); err != nil {
		return nil, err
	}
	if !health.HasAny(&s) {
		return nil, invalidf("sample for %s carries no metrics", s.Date)
	}
	for _, m := range health.Metrics {
		if v := health.Value(&s, m); v != nil && *v < 0 {
			return nil, invalidf("%s must not be negative", m)
		}
	}
	s.Source = strings.TrimSpace(s.Source)
	if s.Source == "" {
		s.Source = DefaultSource
	}
	s.SyncedAt = hs.now().UTC()

	if err := hs.repository.UpsertSample(ctx, s); err != nil {
		return nil, unavailable("save sample", err)
	}
	monitoring.SamplesSynced.WithLabelValues(s.Source).Inc()
	logger.Log.Info("⚖️ Sample synced",
		zap.String("user", string(s.User)),
		zap.String("date", s.Date),
		zap.String("source", s.Source),
	)

	entry, err := hs.repository.GetEntry(ctx, s.User, s.Date)
	if err != nil {
		return nil, unavailable("load entry", err)
	}
	if entry != nil {
		if _, err := hs.checklist.SubmitDay(ctx, s.User, s.Date, entry.Checklist, entry.Notes); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// MergeSample overlays the metrics present in partial onto the sample
// already stored for that day and syncs the result. Metrics absent from
// partial keep their stored values.
func (hs *HealthService) MergeSample(ctx context.Context, partial models.BiometricSample) (*models.BiometricSample, error) {
	if err := validateUserDate(partial.User, partial.Date); err != nil {
		return nil, err
	}
	stored, err := hs.repository.GetSample(ctx, partial.User, partial.Date)
	if err != nil {
		return nil, unavailable("load sample", err)
	}
	if stored == nil {
		return hs.SyncSample(ctx, partial)
	}

	merged := *stored
	overlay(&merged.Weight, partial.Weight)
	overlay(&merged.BodyFat, partial.BodyFat)
	overlay(&merged.MuscleMass, partial.MuscleMass)
	overlay(&merged.WaterPercentage, partial.WaterPercentage)
	overlay(&merged.BoneMass, partial.BoneMass)
	overlay(&merged.VisceralFat, partial.VisceralFat)
	overlay(&merged.HeartRate, partial.HeartRate)
	overlay(&merged.SleepScore, partial.SleepScore)
	if partial.Steps != nil {
		merged.Steps = partial.Steps
	}
	if partial.Source != "" {
		merged.Source = partial.Source
	}
	return hs.SyncSample(ctx, merged)
}

func overlay(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}

// Snapshot reports the latest sample on or before today together with the
// day-over-day trend against the sample of the day before it.
func (hs *HealthService) Snapshot(ctx context.Context, user models.User, today string) (health.MetricSnapshot, error) {
	if err := validateUserDate(user, today); err != nil {
		return health.MetricSnapshot{}, err
	}

	latest, err := hs.repository.GetLatestSamples(ctx, user, today, 1)
	if err != nil {
		return health.MetricSnapshot{}, unavailable("load samples", err)
	}
	if len(latest) == 0 {
		return health.Snapshot(user, nil, nil, today, hs.staleAfterDays), nil
	}

	previous, err := hs.repository.GetSample(ctx, user, utils.AddDays(latest[0].Date, -1))
	if err != nil {
		return health.MetricSnapshot{}, unavailable("load samples", err)
	}
	return health.Snapshot(user, &latest[0], previous, today, hs.staleAfterDays), nil
}

// History returns the dense day-by-day biometric history for [start, end].
func (hs *HealthService) History(ctx context.Context, user models.User, start, end string) (health.History, error) {
	if err := validateUser(user); err != nil {
		return health.History{}, err
	}
	if err := validateRange(start, end); err != nil {
		return health.History{}, err
	}
	if days, _ := utils.DaysBetween(start, end); days >= MaxHistoryDays {
		return health.History{}, invalidf("range longer than %d days", MaxHistoryDays)
	}

	samples, err := hs.repository.GetSamples(ctx, user, start, end)
	if err != nil {
		return health.History{}, unavailable("load samples", err)
	}
	return health.Complete(samples, start, end, hs.rules.StepsGoal), nil
}
