package services

import (
	"context"
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/scoring"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// Challenge describes the fixed-length competition both users take part in.
type Challenge struct {
	Start     string
	Weeks     int
	WeekStart time.Weekday
}

// End is the last day of the challenge.
func (c Challenge) End() string {
	return utils.AddDays(c.Start, c.Weeks*7-1)
}

type CompetitionReport struct {
	scoring.Standings
	Scope         string `json:"scope"`
	ChallengeWeek int    `json:"challenge_week"`
	DaysLeft      int    `json:"days_left"`
}

type CompetitionService struct {
	repository *database.Repository
	rules      scoring.Rules
	users      []models.User
	challenge  Challenge
}

func NewCompetitionService(repo *database.Repository, rules scoring.Rules, challenge Challenge) *CompetitionService {
	return &CompetitionService{
		repository: repo,
		rules:      rules,
		users:      []models.User{models.UserA, models.UserB},
		challenge:  challenge,
	}
}

// Standings compares both users over the week that contains date.
func (cs *CompetitionService) Standings(ctx context.Context, date string) (*CompetitionReport, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	window, err := scoring.WeekWindow(date, cs.challenge.WeekStart)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	return cs.report(ctx, "week", window, date)
}

// ChallengeStandings compares both users from the first day of the
// challenge through date, capped at the challenge's last day.
func (cs *CompetitionService) ChallengeStandings(ctx context.Context, date string) (*CompetitionReport, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	window := scoring.Window{Start: cs.challenge.Start, End: cs.challenge.End()}
	return cs.report(ctx, "challenge", window, date)
}

func (cs *CompetitionService) report(ctx context.Context, scope string, window scoring.Window, date string) (*CompetitionReport, error) {
	entries, err := cs.repository.GetEntriesInRange(ctx, window.Start, window.End)
	if err != nil {
		return nil, unavailable("load entries", err)
	}
	return &CompetitionReport{
		Standings:     cs.rules.Aggregate(cs.users, entries, window),
		Scope:         scope,
		ChallengeWeek: scoring.ChallengeWeek(cs.challenge.Start, date),
		DaysLeft:      window.DaysLeft(date),
	}, nil
}
