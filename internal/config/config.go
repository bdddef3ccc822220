package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Challenge ChallengeConfig `mapstructure:"challenge"`
	Users     UsersConfig     `mapstructure:"users"`

	Timezone string `mapstructure:"timezone"`

	// Resolved from the raw values above by Load.
	Location  *time.Location `mapstructure:"-"`
	WeekStart time.Weekday   `mapstructure:"-"`
}

type TelegramConfig struct {
	Token   string `mapstructure:"token"`
	ChatID  int64  `mapstructure:"chat_id"`
	UserAID int64  `mapstructure:"user_a_id"`
	UserBID int64  `mapstructure:"user_b_id"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type ChallengeConfig struct {
	Start          string `mapstructure:"start"`
	Weeks          int    `mapstructure:"weeks"`
	WeekStart      string `mapstructure:"week_start"`
	StaleAfterDays int    `mapstructure:"stale_after_days"`
}

type UsersConfig struct {
	AName string `mapstructure:"a_name"`
	BName string `mapstructure:"b_name"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "/data/health-tracking.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("timezone", "Europe/Warsaw")
	v.SetDefault("challenge.start", "2024-09-15")
	v.SetDefault("challenge.weeks", 12)
	v.SetDefault("challenge.week_start", "monday")
	v.SetDefault("challenge.stale_after_days", 1)
	v.SetDefault("users.a_name", "Bob")
	v.SetDefault("users.b_name", "Paula")

	// Telegram
	bindEnv(v, "telegram.token", "TG_TOKEN")
	bindEnv(v, "telegram.chat_id", "TG_CHAT_ID")
	bindEnv(v, "telegram.user_a_id", "TG_USER_A_ID")
	bindEnv(v, "telegram.user_b_id", "TG_USER_B_ID")

	// Server
	bindEnv(v, "server.port", "PORT")
	bindEnv(v, "server.mode", "SERVER_MODE")
	bindEnv(v, "database.path", "DB_PATH")

	// Logging
	bindEnv(v, "log.level", "LOG_LEVEL")
	bindEnv(v, "log.file", "LOG_FILE")

	// Challenge
	bindEnv(v, "timezone", "TIMEZONE")
	bindEnv(v, "challenge.start", "CHALLENGE_START")
	bindEnv(v, "challenge.weeks", "CHALLENGE_WEEKS")
	bindEnv(v, "challenge.week_start", "WEEK_START")
	bindEnv(v, "challenge.stale_after_days", "STALE_AFTER_DAYS")
	bindEnv(v, "users.a_name", "USER_A_NAME")
	bindEnv(v, "users.b_name", "USER_B_NAME")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper, key, env string) {
	// BindEnv only fails when called without a key.
	_ = v.BindEnv(key, env)
}

func (c *Config) resolve() error {
	if c.Telegram.Token == "" {
		return errors.New("TG_TOKEN is not set")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("TG_CHAT_ID is not set")
	}

	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	weekday, err := ParseWeekday(c.Challenge.WeekStart)
	if err != nil {
		return err
	}
	c.WeekStart = weekday

	if !utils.IsValidDate(c.Challenge.Start) {
		return fmt.Errorf("invalid CHALLENGE_START %q", c.Challenge.Start)
	}
	if c.Challenge.Weeks <= 0 {
		return fmt.Errorf("invalid CHALLENGE_WEEKS %d", c.Challenge.Weeks)
	}
	if c.Challenge.StaleAfterDays < 0 {
		return fmt.Errorf("invalid STALE_AFTER_DAYS %d", c.Challenge.StaleAfterDays)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid SERVER_MODE %q", c.Server.Mode)
	}
	return nil
}

// ParseWeekday accepts english day names, full or three-letter, in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid WEEK_START %q", s)
}

// UserByTelegramID maps a Telegram sender to a participant.
func (c *Config) UserByTelegramID(id int64) (models.User, bool) {
	switch {
	case id == 0:
		return "", false
	case id == c.Telegram.UserAID:
		return models.UserA, true
	case id == c.Telegram.UserBID:
		return models.UserB, true
	}
	return "", false
}

func (c *Config) DisplayName(u models.User) string {
	switch u {
	case models.UserA:
		return c.Users.AName
	case models.UserB:
		return c.Users.BName
	}
	return string(u)
}
