package scoring

import (
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// Leader is either a participant or LeaderTie. A tie is never resolved in
// favour of one user; callers decide how to display it.
type Leader string

const LeaderTie Leader = "tie"

func (l Leader) IsTie() bool { return l == LeaderTie }

func (l Leader) User() (models.User, bool) {
	if l == LeaderTie || l == "" {
		return "", false
	}
	return models.User(l), true
}

type Category string

const (
	CategorySteps       Category = "steps"
	CategoryTraining    Category = "training"
	CategoryStreak      Category = "streak"
	CategoryPerfectDays Category = "perfect_days"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// DaysLeft counts the days of the window remaining after today.
func (w Window) DaysLeft(today string) int {
	if today > w.End {
		return 0
	}
	if today < w.Start {
		today = utils.AddDays(w.Start, -1)
	}
	n, err := utils.DaysBetween(today, w.End)
	if err != nil {
		return 0
	}
	return n
}

// WeekWindow returns the seven-day week containing date, starting on
// weekStart.
func WeekWindow(date string, weekStart time.Weekday) (Window, error) {
	d, err := utils.ParseDate(date)
	if err != nil {
		return Window{}, err
	}
	for d.Weekday() != weekStart {
		d = d.AddDate(0, 0, -1)
	}
	return Window{
		Start: utils.FormatDate(d),
		End:   utils.FormatDate(d.AddDate(0, 0, 6)),
	}, nil
}

// ChallengeWeek is the 1-based week of a challenge that began on start, or 0
// before the challenge.
func ChallengeWeek(start, date string) int {
	days, err := utils.DaysBetween(start, date)
	if err != nil || days < 0 {
		return 0
	}
	return days/7 + 1
}

type Standings struct {
	Window    Window              `json:"window"`
	Totals    map[models.User]int `json:"totals"`
	Leader    Leader              `json:"leader"`
	Margin    int                 `json:"margin"`
	Champions map[Category]Leader `json:"champions"`
}

// Aggregate sums totalPoints per participant over the entries that fall in
// window. Entries for other users or dates are ignored.
func (r Rules) Aggregate(users []models.User, entries []models.DailyEntry, window Window) Standings {
	totals := make(map[models.User]int, len(users))
	steps := make(map[models.User]int, len(users))
	training := make(map[models.User]int, len(users))
	bestStreak := make(map[models.User]int, len(users))
	perfect := make(map[models.User]int, len(users))
	for _, u := range users {
		totals[u] = 0
		steps[u] = 0
		training[u] = 0
		bestStreak[u] = 0
		perfect[u] = 0
	}

	maxDaily := r.MaxDailyPoints()
	for _, e := range entries {
		if _, ok := totals[e.User]; !ok || !window.Contains(e.Date) {
			continue
		}
		totals[e.User] += e.TotalPoints
		if e.Checklist.Steps10k {
			steps[e.User]++
		}
		if e.Checklist.Training {
			training[e.User]++
		}
		if e.Streak > bestStreak[e.User] {
			bestStreak[e.User] = e.Streak
		}
		if e.DailyPoints >= maxDaily {
			perfect[e.User]++
		}
	}

	leader, margin := decide(users, totals)
	standings := Standings{
		Window: window,
		Totals: totals,
		Leader: leader,
		Margin: margin,
		Champions: map[Category]Leader{
			CategorySteps:       first(decide(users, steps)),
			CategoryTraining:    first(decide(users, training)),
			CategoryStreak:      first(decide(users, bestStreak)),
			CategoryPerfectDays: first(decide(users, perfect)),
		},
	}
	return standings
}

// decide picks the participant strictly ahead of everyone else. Margin is the
// gap to the runner-up, which for two users is the absolute difference.
func decide(users []models.User, scores map[models.User]int) (Leader, int) {
	if len(users) == 0 {
		return LeaderTie, 0
	}

	best := users[0]
	tied := false
	for _, u := range users[1:] {
		switch {
		case scores[u] > scores[best]:
			best = u
			tied = false
		case scores[u] == scores[best]:
			tied = true
		}
	}
	if tied {
		return LeaderTie, 0
	}

	runnerUp := 0
	found := false
	for _, u := range users {
		if u == best {
			continue
		}
		if !found || scores[u] > runnerUp {
			runnerUp = scores[u]
			found = true
		}
	}
	return Leader(best), scores[best] - runnerUp
}

func first(l Leader, _ int) Leader { return l }
