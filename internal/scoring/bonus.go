package scoring

// Bonus adds the tier bonus for dailyPoints and the single highest streak
// bonus reached. The tier is evaluated here again so callers may skip Tier.
func (r Rules) Bonus(dailyPoints, streak int) int {
	bonus := 0

	for _, t := range r.Tiers {
		if dailyPoints >= t.Min {
			bonus += t.Bonus
			break
		}
	}

	for _, s := range r.StreakBonuses {
		if streak >= s.Days {
			bonus += s.Bonus
			break
		}
	}

	return bonus
}

func (r Rules) Total(dailyPoints, streak int) int {
	return dailyPoints + r.Bonus(dailyPoints, streak)
}
