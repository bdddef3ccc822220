package scoring

import (
	"sort"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

func (r Rules) Qualifies(totalPoints int) bool {
	return totalPoints >= r.StreakThreshold
}

// ComputeStreak counts consecutive qualifying calendar days ending at today.
// When today has no entry yet the count ends at yesterday instead. The walk
// stops at the first day that is missing or below the threshold, so an
// older entry never bridges a gap.
func (r Rules) ComputeStreak(history []models.DayTotal, today string) int {
	byDate := make(map[string]int, len(history))
	for _, d := range history {
		byDate[d.Date] = d.TotalPoints
	}

	day := today
	if _, ok := byDate[today]; !ok {
		day = utils.AddDays(today, -1)
	}

	streak := 0
	for day != "" {
		total, ok := byDate[day]
		if !ok || !r.Qualifies(total) {
			break
		}
		streak++
		day = utils.AddDays(day, -1)
	}
	return streak
}

// LongestRun returns the longest run of consecutive qualifying days found
// anywhere in history.
func (r Rules) LongestRun(history []models.DayTotal) int {
	var dates []string
	for _, d := range history {
		if r.Qualifies(d.TotalPoints) {
			dates = append(dates, d.Date)
		}
	}
	sort.Strings(dates)

	best, run := 0, 0
	prev := ""
	for _, date := range dates {
		switch {
		case date == prev:
			continue
		case prev != "" && utils.AddDays(prev, 1) == date:
			run++
		default:
			run = 1
		}
		if run > best {
			best = run
		}
		prev = date
	}
	return best
}

// NextStreakRecord folds a freshly computed streak into the persisted record.
// BestStreak never decreases.
func NextStreakRecord(prev *models.StreakRecord, user models.User, current int, activityDate string) models.StreakRecord {
	next := models.StreakRecord{
		User:             user,
		CurrentStreak:    current,
		BestStreak:       current,
		LastActivityDate: activityDate,
	}
	if prev != nil {
		if prev.BestStreak > next.BestStreak {
			next.BestStreak = prev.BestStreak
		}
		if next.LastActivityDate == "" || prev.LastActivityDate > next.LastActivityDate {
			next.LastActivityDate = prev.LastActivityDate
		}
	}
	return next
}

// Totals projects entries onto the (date, totalPoints) pairs used above.
func Totals(entries []models.DailyEntry) []models.DayTotal {
	totals := make([]models.DayTotal, 0, len(entries))
	for _, e := range entries {
		totals = append(totals, models.DayTotal{Date: e.Date, TotalPoints: e.TotalPoints})
	}
	return totals
}
