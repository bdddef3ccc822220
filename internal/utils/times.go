package utils

import (
	"fmt"
	"regexp"
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

var (
	localLocation = time.UTC

	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
	datePattern  = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
)

// SetLocation sets the zone used to decide which calendar day "today" is.
func SetLocation(loc *time.Location) {
	if loc != nil {
		localLocation = loc
	}
}

func Location() *time.Location {
	return localLocation
}

// LoadLocation resolves a zone name, falling back to UTC for an empty name.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Today returns the current calendar date in the configured zone.
func Today() string {
	return time.Now().In(localLocation).Format(models.DateLayout)
}

func IsValidDate(date string) bool {
	if !datePattern.MatchString(date) {
		return false
	}
	_, err := time.Parse(models.DateLayout, date)
	return err == nil
}

func IsValidClock(hhmm string) bool {
	return clockPattern.MatchString(hhmm)
}

// ParseDate parses a calendar date as midnight UTC so that day arithmetic is
// never affected by DST transitions.
func ParseDate(date string) (time.Time, error) {
	if !datePattern.MatchString(date) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return time.Parse(models.DateLayout, date)
}

func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// AddDays shifts a well-formed date by n calendar days. A malformed date
// yields an empty string.
func AddDays(date string, n int) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// DaysBetween returns to - from in whole calendar days.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// DateRange lists every calendar day in [start, end]. It is empty when end is
// before start or either bound is malformed.
func DateRange(start, end string) []string {
	s, err := ParseDate(start)
	if err != nil {
		return nil
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil
	}

	var days []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, FormatDate(d))
	}
	return days
}

// GetTimezoneInfo describes the configured zone for bot messages.
func GetTimezoneInfo() string {
	now := time.Now().In(localLocation)
	name, offset := now.Zone()
	return fmt.Sprintf("🕐 %s %s (UTC%+d)", now.Format("15:04"), name, offset/3600)
}
