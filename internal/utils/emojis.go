package utils

import "github.com/bobkonczak/health-tracking-pro/internal/models"

// Helpers for the names and emojis shown next to tiers and checklist flags.
func GetTierEmoji(tier string) string {
	switch tier {
	case "gold":
		return "🥇"
	case "silver":
		return "🥈"
	case "bronze":
		return "🥉"
	default:
		return "❌"
	}
}

func GetFlagName(flag models.Flag) string {
	if name, ok := models.FlagNames[flag]; ok {
		return name
	}
	return string(flag)
}

func CheckMark(done bool) string {
	if done {
		return "✅"
	}
	return "⬜"
}
