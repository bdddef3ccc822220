package database

import (
	"database/sql"
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

// Column lists shared by the SELECTs and the scanners below; keep them in
// the same order.
const (
	entryColumns = `date, user_id, no_sugar, no_alcohol, fasting_time, fasting_points,
		training, morning_routine, sauna, steps_10k, supplements, weighed_in,
		calories_tracked, daily_points, bonus_points, total_points, streak, notes,
		created_at, updated_at`

	sampleColumns = `date, user_id, weight, body_fat, muscle_mass, water_percentage,
		bone_mass, visceral_fat, steps, heart_rate, sleep_score, data_source, synced_at`
)

// timestamps are stored as RFC 3339 text so they sort and survive the driver
// without declared-type conversion.
const timestampLayout = time.RFC3339Nano

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (models.DailyEntry, error) {
	var (
		e                    models.DailyEntry
		user                 string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&e.Date,
		&user,
		&e.Checklist.NoSugar,
		&e.Checklist.NoAlcohol,
		&e.Checklist.FastingTime,
		&e.Checklist.FastingPoints,
		&e.Checklist.Training,
		&e.Checklist.MorningRoutine,
		&e.Checklist.Sauna,
		&e.Checklist.Steps10k,
		&e.Checklist.Supplements,
		&e.Checklist.WeighedIn,
		&e.Checklist.CaloriesTracked,
		&e.DailyPoints,
		&e.BonusPoints,
		&e.TotalPoints,
		&e.Streak,
		&e.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.DailyEntry{}, err
	}
	e.User = models.User(user)
	e.CreatedAt = parseTimestamp(createdAt)
	e.UpdatedAt = parseTimestamp(updatedAt)
	return e, nil
}

func scanSample(row scanner) (models.BiometricSample, error) {
	var (
		s                                              models.BiometricSample
		user, syncedAt                                 string
		weight, bodyFat, muscle, water, bone, visceral sql.NullFloat64
		heartRate, sleep                               sql.NullFloat64
		steps                                          sql.NullInt64
	)
	err := row.Scan(
		&s.Date,
		&user,
		&weight,
		&bodyFat,
		&muscle,
		&water,
		&bone,
		&visceral,
		&steps,
		&heartRate,
		&sleep,
		&s.Source,
		&syncedAt,
	)
	if err != nil {
		return models.BiometricSample{}, err
	}
	s.User = models.User(user)
	s.Weight = floatPtr(weight)
	s.BodyFat = floatPtr(bodyFat)
	s.MuscleMass = floatPtr(muscle)
	s.WaterPercentage = floatPtr(water)
	s.BoneMass = floatPtr(bone)
	s.VisceralFat = floatPtr(visceral)
	s.Steps = intPtr(steps)
	s.HeartRate = floatPtr(heartRate)
	s.SleepScore = floatPtr(sleep)
	s.SyncedAt = parseTimestamp(syncedAt)
	return s, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
