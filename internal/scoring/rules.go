// Package scoring turns a day's checklist into points, bonuses, streaks and
// weekly standings. Every function here is pure: the same Rules and input
// always produce the same result.
package scoring

import (
	"errors"
	"fmt"
)

type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
	TierFail   Tier = "fail"
)

var ErrInvalidRules = errors.New("invalid scoring rules")

type Weights struct {
	NoSugar         int
	NoAlcohol       int
	Training        int
	MorningRoutine  int
	Sauna           int
	Steps10k        int
	Supplements     int
	WeighedIn       int
	CaloriesTracked int
}

// FastingTier awards Points when the last meal is strictly before Before.
type FastingTier struct {
	Before string // HH:MM
	Points int
}

type TierThreshold struct {
	Tier  Tier
	Min   int
	Bonus int
}

type StreakBonus struct {
	Days  int
	Bonus int
}

// Rules is the immutable score table. Callers receive a copy from
// DefaultRules and pass it around by value.
type Rules struct {
	Weights Weights
	// Fasting tiers, ordered from the earliest cut-off.
	Fasting []FastingTier
	// Tiers, ordered from the highest threshold.
	Tiers []TierThreshold
	// Streak bonuses, ordered from the longest streak.
	StreakBonuses []StreakBonus
	// MaxDaily caps the daily score. The default weights add up to 17 and
	// are capped at 16.
	MaxDaily int
	// StreakThreshold is the minimum totalPoints for a day to extend a streak.
	StreakThreshold int
	StepsGoal       int
}

func DefaultRules() Rules {
	return Rules{
		Weights: Weights{
			NoSugar:         1,
			NoAlcohol:       1,
			Training:        2,
			MorningRoutine:  3,
			Sauna:           1,
			Steps10k:        2,
			Supplements:     1,
			WeighedIn:       1,
			CaloriesTracked: 2,
		},
		Fasting: []FastingTier{
			{Before: "17:00", Points: 3},
			{Before: "19:00", Points: 2},
		},
		Tiers: []TierThreshold{
			{Tier: TierGold, Min: 12, Bonus: 5},
			{Tier: TierSilver, Min: 10, Bonus: 3},
			{Tier: TierBronze, Min: 8, Bonus: 2},
		},
		StreakBonuses: []StreakBonus{
			{Days: 15, Bonus: 15},
			{Days: 10, Bonus: 10},
			{Days: 7, Bonus: 5},
			{Days: 5, Bonus: 3},
			{Days: 3, Bonus: 2},
		},
		MaxDaily:        16,
		StreakThreshold: 8,
		StepsGoal:       10000,
	}
}

// Validate rejects tables that would break the scoring invariants.
func (r Rules) Validate() error {
	w := r.Weights
	for name, v := range map[string]int{
		"no_sugar":         w.NoSugar,
		"no_alcohol":       w.NoAlcohol,
		"training":         w.Training,
		"morning_routine":  w.MorningRoutine,
		"sauna":            w.Sauna,
		"steps_10k":        w.Steps10k,
		"supplements":      w.Supplements,
		"weighed_in":       w.WeighedIn,
		"calories_tracked": w.CaloriesTracked,
	} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight for %s", ErrInvalidRules, name)
		}
	}

	for i, f := range r.Fasting {
		if f.Points < 0 {
			return fmt.Errorf("%w: negative fasting points before %s", ErrInvalidRules, f.Before)
		}
		if _, err := clockMinutes(f.Before); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRules, err)
		}
		if i > 0 && f.Before <= r.Fasting[i-1].Before {
			return fmt.Errorf("%w: fasting tiers must be ordered by cut-off", ErrInvalidRules)
		}
	}

	for i, t := range r.Tiers {
		if t.Bonus < 0 {
			return fmt.Errorf("%w: negative bonus for tier %s", ErrInvalidRules, t.Tier)
		}
		if i > 0 && t.Min >= r.Tiers[i-1].Min {
			return fmt.Errorf("%w: tiers must be ordered from the highest threshold", ErrInvalidRules)
		}
	}

	for i, s := range r.StreakBonuses {
		if s.Bonus < 0 {
			return fmt.Errorf("%w: negative streak bonus for %d days", ErrInvalidRules, s.Days)
		}
		if i > 0 && s.Days >= r.StreakBonuses[i-1].Days {
			return fmt.Errorf("%w: streak bonuses must be ordered from the longest streak", ErrInvalidRules)
		}
	}

	if r.MaxDaily <= 0 {
		return fmt.Errorf("%w: daily cap must be positive", ErrInvalidRules)
	}
	if r.StreakThreshold < 0 || r.StepsGoal <= 0 {
		return fmt.Errorf("%w: thresholds must be positive", ErrInvalidRules)
	}
	return nil
}

// MaxDailyPoints is the best attainable score for one day.
func (r Rules) MaxDailyPoints() int {
	return min(r.weightSum(), r.MaxDaily)
}

func (r Rules) weightSum() int {
	w := r.Weights
	maxFasting := 0
	for _, f := range r.Fasting {
		if f.Points > maxFasting {
			maxFasting = f.Points
		}
	}
	return w.NoSugar + w.NoAlcohol + maxFasting + w.Training + w.MorningRoutine +
		w.Sauna + w.Steps10k + w.Supplements + w.WeighedIn + w.CaloriesTracked
}
