package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/logger"
)

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time keeps concurrent upserts from cron, bot and API
	// from failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Log.Info("✅ Database initialised", zap.String("path", path))
	return d, nil
}

func (d *Database) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS daily_entries (
			date TEXT NOT NULL,
			user_id TEXT NOT NULL,
			no_sugar BOOLEAN NOT NULL DEFAULT 0,
			no_alcohol BOOLEAN NOT NULL DEFAULT 0,
			fasting_time TEXT NOT NULL DEFAULT '',
			fasting_points INTEGER NOT NULL DEFAULT 0,
			training BOOLEAN NOT NULL DEFAULT 0,
			morning_routine BOOLEAN NOT NULL DEFAULT 0,
			sauna BOOLEAN NOT NULL DEFAULT 0,
			steps_10k BOOLEAN NOT NULL DEFAULT 0,
			supplements BOOLEAN NOT NULL DEFAULT 0,
			weighed_in BOOLEAN NOT NULL DEFAULT 0,
			calories_tracked BOOLEAN NOT NULL DEFAULT 0,
			daily_points INTEGER NOT NULL DEFAULT 0,
			bonus_points INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (date, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS biometric_samples (
			date TEXT NOT NULL,
			user_id TEXT NOT NULL,
			weight REAL,
			body_fat REAL,
			muscle_mass REAL,
			water_percentage REAL,
			bone_mass REAL,
			visceral_fat REAL,
			steps INTEGER,
			heart_rate REAL,
			sleep_score REAL,
			data_source TEXT NOT NULL DEFAULT '',
			synced_at TEXT NOT NULL,
			PRIMARY KEY (date, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS streaks (
			user_id TEXT PRIMARY KEY,
			current_streak INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			last_activity_date TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_user_date ON daily_entries(user_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_user_date ON biometric_samples(user_id, date)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.db.Close()
}
