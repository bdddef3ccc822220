package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

// Score sums the checklist weights, capped at MaxDaily. FastingPoints is
// taken as already resolved by FastingPoints.
func (r Rules) Score(c models.Checklist) int {
	w := r.Weights
	points := 0

	if c.NoSugar {
		points += w.NoSugar
	}
	if c.NoAlcohol {
		points += w.NoAlcohol
	}
	if c.FastingPoints > 0 {
		points += c.FastingPoints
	}
	if c.Training {
		points += w.Training
	}
	if c.MorningRoutine {
		points += w.MorningRoutine
	}
	if c.Sauna {
		points += w.Sauna
	}
	if c.Steps10k {
		points += w.Steps10k
	}
	if c.Supplements {
		points += w.Supplements
	}
	if c.WeighedIn {
		points += w.WeighedIn
	}
	if c.CaloriesTracked {
		points += w.CaloriesTracked
	}

	return min(points, r.MaxDaily)
}

func (r Rules) Tier(dailyPoints int) Tier {
	for _, t := range r.Tiers {
		if dailyPoints >= t.Min {
			return t.Tier
		}
	}
	return TierFail
}

// FastingPoints resolves the tier for a last-meal time. An empty time means
// no fasting was logged.
func (r Rules) FastingPoints(hhmm string) (int, error) {
	if hhmm == "" {
		return 0, nil
	}
	minutes, err := clockMinutes(hhmm)
	if err != nil {
		return 0, err
	}
	for _, f := range r.Fasting {
		cutoff, _ := clockMinutes(f.Before)
		if minutes < cutoff {
			return f.Points, nil
		}
	}
	return 0, nil
}

// WithFasting returns a copy of c with FastingTime and FastingPoints set.
func (r Rules) WithFasting(c models.Checklist, hhmm string) (models.Checklist, error) {
	points, err := r.FastingPoints(hhmm)
	if err != nil {
		return c, err
	}
	c.FastingTime = hhmm
	c.FastingPoints = points
	return c, nil
}

func clockMinutes(hhmm string) (int, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*60 + m, nil
}
