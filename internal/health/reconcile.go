package health

import (
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// Reconcile promotes the auto-checked flags from a sample. Promotion only
// ever sets a flag; a flag that is already true stays true and every other
// flag passes through unchanged. A nil sample is a no-op.
func Reconcile(c models.Checklist, sample *models.BiometricSample, stepsGoal int) models.Checklist {
	if sample == nil {
		return c
	}
	if sample.Steps != nil && *sample.Steps >= stepsGoal {
		c.Steps10k = true
	}
	if sample.Weight != nil {
		c.WeighedIn = true
	}
	return c
}

// Trend is current - previous rounded to one decimal, or nil when either
// side is missing.
func Trend(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}
	t := Round1(*current - *previous)
	return &t
}

type MetricReading struct {
	Value   *float64 `json:"value"`
	Unit    string   `json:"unit"`
	Trend   *float64 `json:"trend"`
	HasData bool     `json:"has_data"`
}

// MetricSnapshot is the "latest reading" view of a user's biometrics.
type MetricSnapshot struct {
	User       models.User              `json:"user"`
	Date       string                   `json:"date,omitempty"`
	Metrics    map[Metric]MetricReading `json:"metrics"`
	DataSource string                   `json:"data_source,omitempty"`
	LastSynced string                   `json:"last_synced,omitempty"`
	HasData    bool                     `json:"has_data"`
	DaysOld    *int                     `json:"days_old"`
	Stale      bool                     `json:"stale"`
}

// Snapshot compares the two most recent samples. DaysOld and Stale describe
// how far latest lags behind today and exist only to warn the user; values
// from an old sample are never copied into today's record.
func Snapshot(user models.User, latest, previous *models.BiometricSample, today string, staleAfterDays int) MetricSnapshot {
	snap := MetricSnapshot{
		User:    user,
		Metrics: make(map[Metric]MetricReading, len(Metrics)),
	}

	for _, m := range Metrics {
		v := Value(latest, m)
		snap.Metrics[m] = MetricReading{
			Value:   v,
			Unit:    Units[m],
			Trend:   Trend(v, Value(previous, m)),
			HasData: v != nil,
		}
	}

	if latest == nil {
		snap.Stale = true
		return snap
	}

	snap.Date = latest.Date
	snap.DataSource = latest.Source
	snap.HasData = HasAny(latest)
	if !latest.SyncedAt.IsZero() {
		snap.LastSynced = latest.SyncedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	if days, err := utils.DaysBetween(latest.Date, today); err == nil {
		snap.DaysOld = &days
		snap.Stale = days > staleAfterDays
	}
	return snap
}
