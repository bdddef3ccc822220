package config

import (
	"testing"
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TG_TOKEN", "123:abc")
	t.Setenv("TG_CHAT_ID", "-100200300")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Telegram.ChatID != -100200300 {
		t.Errorf("ChatID = %d", cfg.Telegram.ChatID)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Challenge.Start != "2024-09-15" || cfg.Challenge.Weeks != 12 {
		t.Errorf("challenge = %+v", cfg.Challenge)
	}
	if cfg.WeekStart != time.Monday {
		t.Errorf("WeekStart = %s, want Monday", cfg.WeekStart)
	}
	if cfg.Location == nil || cfg.Location.String() != "Europe/Warsaw" {
		t.Errorf("Location = %v", cfg.Location)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/h.db")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("WEEK_START", "Sun")
	t.Setenv("CHALLENGE_WEEKS", "8")
	t.Setenv("STALE_AFTER_DAYS", "3")
	t.Setenv("TG_USER_A_ID", "111")
	t.Setenv("TG_USER_B_ID", "222")
	t.Setenv("USER_B_NAME", "Ola")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Database.Path != "/tmp/h.db" {
		t.Errorf("server/db = %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.WeekStart != time.Sunday {
		t.Errorf("WeekStart = %s, want Sunday", cfg.WeekStart)
	}
	if cfg.Challenge.Weeks != 8 || cfg.Challenge.StaleAfterDays != 3 {
		t.Errorf("challenge = %+v", cfg.Challenge)
	}
	if u, ok := cfg.UserByTelegramID(222); !ok || u != models.UserB {
		t.Errorf("UserByTelegramID(222) = %q, %v", u, ok)
	}
	if _, ok := cfg.UserByTelegramID(333); ok {
		t.Error("unknown sender must not resolve")
	}
	if got := cfg.DisplayName(models.UserB); got != "Ola" {
		t.Errorf("DisplayName(B) = %q, want Ola", got)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"TG_TOKEN": ""}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{"bad week start", map[string]string{"WEEK_START": "someday"}},
		{"bad challenge start", map[string]string{"CHALLENGE_START": "15.09.2024"}},
		{"zero weeks", map[string]string{"CHALLENGE_WEEKS": "0"}},
		{"bad server mode", map[string]string{"SERVER_MODE": "production"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUnsetTelegramIDsNeverMatch(t *testing.T) {
	cfg := &Config{}
	if _, ok := cfg.UserByTelegramID(0); ok {
		t.Error("zero id must not resolve")
	}
}
