package services

import (
	"context"

	"github.com/bobkonczak/health-tracking-pro/internal/config"
	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/scoring"
)

type ServiceManager struct {
	Checklist    *ChecklistService
	Health       *HealthService
	Competition  *CompetitionService
	Streak       *StreakService
	Notification *NotificationService

	repository *database.Repository
	rules      scoring.Rules
	names      func(models.User) string
}

func NewServiceManager(db *database.Database, cfg *config.Config) *ServiceManager {
	repo := database.NewRepository(db)
	rules := scoring.DefaultRules()

	streaks := NewStreakService(repo, rules)
	checklist := NewChecklistService(repo, rules, streaks)
	challenge := Challenge{
		Start:     cfg.Challenge.Start,
		Weeks:     cfg.Challenge.Weeks,
		WeekStart: cfg.WeekStart,
	}

	return &ServiceManager{
		Checklist:    checklist,
		Health:       NewHealthService(repo, rules, checklist, cfg.Challenge.StaleAfterDays),
		Competition:  NewCompetitionService(repo, rules, challenge),
		Streak:       streaks,
		Notification: nil,
		repository:   repo,
		rules:        rules,
		names:        cfg.DisplayName,
	}
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender) {
	sm.Notification = NewNotificationService(sender, sm)
}

func (sm *ServiceManager) Rules() scoring.Rules {
	return sm.rules
}

func (sm *ServiceManager) DisplayName(u models.User) string {
	return sm.names(u)
}

// Ping reports whether the store is reachable.
func (sm *ServiceManager) Ping(ctx context.Context) error {
	if err := sm.repository.Db.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}
