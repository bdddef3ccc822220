package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/config"
	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

const testToday = "2024-10-10"

func testConfig() *config.Config {
	return &config.Config{
		Challenge: config.ChallengeConfig{
			Start:          "2024-09-15",
			Weeks:          12,
			StaleAfterDays: 1,
		},
		Users:     config.UsersConfig{AName: "Bob", BName: "Paula"},
		WeekStart: time.Monday,
		Location:  time.UTC,
	}
}

// newTestManager wires every service against a fresh SQLite file with the
// clock pinned to testToday.
func newTestManager(t *testing.T) (*ServiceManager, *database.Database) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sm := NewServiceManager(db, testConfig())
	sm.Checklist.today = func() string { return testToday }
	sm.Health.now = func() time.Time { return time.Date(2024, 10, 10, 9, 0, 0, 0, time.UTC) }
	return sm, db
}

// bronzeDay scores exactly 8 points under the default rules.
func bronzeDay() models.Checklist {
	return models.Checklist{
		NoSugar:        true,
		Training:       true,
		MorningRoutine: true,
		Steps10k:       true,
	}
}

type recordingSender struct {
	messages []string
	err      error
}

func (s *recordingSender) SendMessage(text string) error {
	s.messages = append(s.messages, text)
	return s.err
}
