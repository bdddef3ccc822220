package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

type Repository struct {
	Db *Database
}

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db}
}

// Daily entries

// GetEntry returns the entry for (user, date), or nil when none was saved.
func (r *Repository) GetEntry(ctx context.Context, user models.User, date string) (*models.DailyEntry, error) {
	row := r.Db.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM daily_entries
		WHERE user_id = ? AND date = ?
	`, string(user), date)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntries returns one user's entries with start <= date <= end, oldest first.
func (r *Repository) GetEntries(ctx context.Context, user models.User, start, end string) ([]models.DailyEntry, error) {
	return r.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM daily_entries
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date
	`, string(user), start, end)
}

// GetEntriesInRange returns every user's entries inside [start, end].
func (r *Repository) GetEntriesInRange(ctx context.Context, start, end string) ([]models.DailyEntry, error) {
	return r.queryEntries(ctx, `
		SELECT `+entryColumns+`
		FROM daily_entries
		WHERE date BETWEEN ? AND ?
		ORDER BY date, user_id
	`, start, end)
}

// GetDayTotals returns the (date, total) history of a user up to and
// including through, newest first.
func (r *Repository) GetDayTotals(ctx context.Context, user models.User, through string) ([]models.DayTotal, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT date, total_points
		FROM daily_entries
		WHERE user_id = ? AND date <= ?
		ORDER BY date DESC
	`, string(user), through)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.DayTotal
	for rows.Next() {
		var t models.DayTotal
		if err := rows.Scan(&t.Date, &t.TotalPoints); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// UpsertEntry writes the entry, replacing any previous one for the same
// (user, date). The original creation time is kept.
func (r *Repository) UpsertEntry(ctx context.Context, e models.DailyEntry) error {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	c := e.Checklist

	_, err := r.Db.db.ExecContext(ctx, `
		INSERT INTO daily_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, user_id) DO UPDATE SET
			no_sugar = excluded.no_sugar,
			no_alcohol = excluded.no_alcohol,
			fasting_time = excluded.fasting_time,
			fasting_points = excluded.fasting_points,
			training = excluded.training,
			morning_routine = excluded.morning_routine,
			sauna = excluded.sauna,
			steps_10k = excluded.steps_10k,
			supplements = excluded.supplements,
			weighed_in = excluded.weighed_in,
			calories_tracked = excluded.calories_tracked,
			daily_points = excluded.daily_points,
			bonus_points = excluded.bonus_points,
			total_points = excluded.total_points,
			streak = excluded.streak,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`,
		e.Date, string(e.User),
		c.NoSugar, c.NoAlcohol, c.FastingTime, c.FastingPoints,
		c.Training, c.MorningRoutine, c.Sauna, c.Steps10k, c.Supplements, c.WeighedIn,
		c.CaloriesTracked, e.DailyPoints, e.BonusPoints, e.TotalPoints, e.Streak, e.Notes,
		formatTimestamp(e.CreatedAt), formatTimestamp(e.UpdatedAt),
	)
	return err
}

func (r *Repository) queryEntries(ctx context.Context, query string, args ...any) ([]models.DailyEntry, error) {
	rows, err := r.Db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DailyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Biometric samples

func (r *Repository) GetSample(ctx context.Context, user models.User, date string) (*models.BiometricSample, error) {
	row := r.Db.db.QueryRowContext(ctx, `
		SELECT `+sampleColumns+`
		FROM biometric_samples
		WHERE user_id = ? AND date = ?
	`, string(user), date)

	s, err := scanSample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSamples returns samples with start <= date <= end, oldest first.
func (r *Repository) GetSamples(ctx context.Context, user models.User, start, end string) ([]models.BiometricSample, error) {
	return r.querySamples(ctx, `
		SELECT `+sampleColumns+`
		FROM biometric_samples
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date
	`, string(user), start, end)
}

// GetLatestSamples returns up to limit samples dated on or before through,
// newest first.
func (r *Repository) GetLatestSamples(ctx context.Context, user models.User, through string, limit int) ([]models.BiometricSample, error) {
	return r.querySamples(ctx, `
		SELECT `+sampleColumns+`
		FROM biometric_samples
		WHERE user_id = ? AND date <= ?
		ORDER BY date DESC
		LIMIT ?
	`, string(user), through, limit)
}

func (r *Repository) UpsertSample(ctx context.Context, s models.BiometricSample) error {
	if s.SyncedAt.IsZero() {
		s.SyncedAt = time.Now()
	}

	_, err := r.Db.db.ExecContext(ctx, `
		INSERT INTO biometric_samples (`+sampleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, user_id) DO UPDATE SET
			weight = excluded.weight,
			body_fat = excluded.body_fat,
			muscle_mass = excluded.muscle_mass,
			water_percentage = excluded.water_percentage,
			bone_mass = excluded.bone_mass,
			visceral_fat = excluded.visceral_fat,
			steps = excluded.steps,
			heart_rate = excluded.heart_rate,
			sleep_score = excluded.sleep_score,
			data_source = excluded.data_source,
			synced_at = excluded.synced_at
	`,
		s.Date, string(s.User),
		nullFloat(s.Weight), nullFloat(s.BodyFat), nullFloat(s.MuscleMass),
		nullFloat(s.WaterPercentage), nullFloat(s.BoneMass), nullFloat(s.VisceralFat),
		nullInt(s.Steps), nullFloat(s.HeartRate), nullFloat(s.SleepScore),
		s.Source, formatTimestamp(s.SyncedAt),
	)
	return err
}

func (r *Repository) querySamples(ctx context.Context, query string, args ...any) ([]models.BiometricSample, error) {
	rows, err := r.Db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.BiometricSample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// Streaks

// GetStreak returns the stored record, or nil when the user has none yet.
func (r *Repository) GetStreak(ctx context.Context, user models.User) (*models.StreakRecord, error) {
	var rec models.StreakRecord
	var u string
	err := r.Db.db.QueryRowContext(ctx, `
		SELECT user_id, current_streak, best_streak, last_activity_date
		FROM streaks
		WHERE user_id = ?
	`, string(user)).Scan(&u, &rec.CurrentStreak, &rec.BestStreak, &rec.LastActivityDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.User = models.User(u)
	return &rec, nil
}

func (r *Repository) UpsertStreak(ctx context.Context, rec models.StreakRecord) error {
	_, err := r.Db.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, best_streak, last_activity_date, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			best_streak = excluded.best_streak,
			last_activity_date = excluded.last_activity_date,
			updated_at = excluded.updated_at
	`, string(rec.User), rec.CurrentStreak, rec.BestStreak, rec.LastActivityDate, formatTimestamp(time.Now()))
	return err
}
