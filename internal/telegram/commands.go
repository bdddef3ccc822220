package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

const (
	toggleCallbackPrefix = "toggle:"

	defaultHistoryDays = 7
	maxHistoryDays     = 31
)

var flagAliases = map[string]models.Flag{
	"sugar":    models.FlagNoSugar,
	"alcohol":  models.FlagNoAlcohol,
	"gym":      models.FlagTraining,
	"workout":  models.FlagTraining,
	"morning":  models.FlagMorningRoutine,
	"steps":    models.FlagSteps10k,
	"10k":      models.FlagSteps10k,
	"supps":    models.FlagSupplements,
	"weight":   models.FlagWeighedIn,
	"weigh":    models.FlagWeighedIn,
	"calories": models.FlagCaloriesTracked,
	"kcal":     models.FlagCaloriesTracked,
}

// ParseFlag accepts a flag key (no_sugar), the key without underscores
// (nosugar) or a short alias (sugar).
func ParseFlag(s string) (models.Flag, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range models.Flags {
		key := string(f)
		if s == key || s == strings.ReplaceAll(key, "_", "") {
			return f, true
		}
	}
	f, ok := flagAliases[s]
	return f, ok
}

// commandArgs strips the command (and any @botname suffix) from text.
func commandArgs(text string) string {
	fields := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(fields[1])
}

// commandName returns "/cmd" for "/cmd@SomeBot args".
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}

// ParseHistoryDays reads the optional day count of /history.
func ParseHistoryDays(args string) (int, error) {
	if args == "" {
		return defaultHistoryDays, nil
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < 1 || n > maxHistoryDays {
		return 0, fmt.Errorf("days must be a number between 1 and %d", maxHistoryDays)
	}
	return n, nil
}

// ParseSync reads "key=value" pairs into a sample for date. A date=YYYY-MM-DD
// pair overrides the date; source= sets the data source.
func ParseSync(args, date string) (models.BiometricSample, error) {
	s := models.BiometricSample{Date: date}
	if strings.TrimSpace(args) == "" {
		return s, fmt.Errorf("nothing to sync")
	}

	for _, pair := range strings.Fields(args) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			return s, fmt.Errorf("expected key=value, got %q", pair)
		}
		key = strings.ToLower(key)

		switch key {
		case "date":
			if !utils.IsValidDate(value) {
				return s, fmt.Errorf("invalid date %q", value)
			}
			s.Date = value
			continue
		case "source":
			s.Source = value
			continue
		case "steps":
			n, err := strconv.Atoi(value)
			if err != nil {
				return s, fmt.Errorf("steps must be a whole number")
			}
			s.Steps = &n
			continue
		}

		v, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
		if err != nil {
			return s, fmt.Errorf("%s must be a number", key)
		}
		switch key {
		case "weight":
			s.Weight = &v
		case "body_fat", "fat":
			s.BodyFat = &v
		case "muscle_mass", "muscle":
			s.MuscleMass = &v
		case "water_percentage", "water":
			s.WaterPercentage = &v
		case "bone_mass", "bone":
			s.BoneMass = &v
		case "visceral_fat", "visceral":
			s.VisceralFat = &v
		case "heart_rate", "hr":
			s.HeartRate = &v
		case "sleep_score", "sleep":
			s.SleepScore = &v
		default:
			return s, fmt.Errorf("unknown metric %q", key)
		}
	}
	return s, nil
}

// toggleCallback encodes a flag toggle on owner's checklist for date.
func toggleCallback(owner models.User, flag models.Flag, date string) string {
	return toggleCallbackPrefix + string(owner) + ":" + string(flag) + ":" + date
}

// parseToggleCallback is the inverse of toggleCallback.
func parseToggleCallback(data string) (models.User, models.Flag, string, bool) {
	rest, ok := strings.CutPrefix(data, toggleCallbackPrefix)
	if !ok {
		return "", "", "", false
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", "", "", false
	}
	owner, flag, date := models.User(parts[0]), models.Flag(parts[1]), parts[2]
	if owner != models.UserA && owner != models.UserB {
		return "", "", "", false
	}
	if _, known := models.FlagNames[flag]; !known || !utils.IsValidDate(date) {
		return "", "", "", false
	}
	return owner, flag, date, true
}
