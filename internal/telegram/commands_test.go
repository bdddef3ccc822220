package telegram

import (
	"testing"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

func TestParseFlag(t *testing.T) {
	tests := []struct {
		in   string
		want models.Flag
		ok   bool
	}{
		{"no_sugar", models.FlagNoSugar, true},
		{"NoSugar", models.FlagNoSugar, true},
		{"sugar", models.FlagNoSugar, true},
		{" gym ", models.FlagTraining, true},
		{"10k", models.FlagSteps10k, true},
		{"kcal", models.FlagCaloriesTracked, true},
		{"sauna", models.FlagSauna, true},
		{"fasting", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFlag(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFlag(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCommandNameAndArgs(t *testing.T) {
	text := "/Check@HealthBot  morning routine"
	if got := commandName(text); got != "/check" {
		t.Errorf("commandName = %q", got)
	}
	if got := commandArgs(text); got != "morning routine" {
		t.Errorf("commandArgs = %q", got)
	}
	if got := commandArgs("/today"); got != "" {
		t.Errorf("commandArgs without args = %q", got)
	}
}

func TestParseHistoryDays(t *testing.T) {
	if n, err := ParseHistoryDays(""); err != nil || n != defaultHistoryDays {
		t.Errorf("default = %d, %v", n, err)
	}
	if n, err := ParseHistoryDays("14"); err != nil || n != 14 {
		t.Errorf("14 = %d, %v", n, err)
	}
	for _, bad := range []string{"0", "-3", "32", "week"} {
		if _, err := ParseHistoryDays(bad); err == nil {
			t.Errorf("ParseHistoryDays(%q) accepted", bad)
		}
	}
}

func TestParseSync(t *testing.T) {
	s, err := ParseSync("steps=11200 weight=81,4 fat=19.5 hr=58 source=garmin", "2024-10-10")
	if err != nil {
		t.Fatal(err)
	}
	if s.Date != "2024-10-10" || s.Source != "garmin" {
		t.Errorf("sample = %+v", s)
	}
	if s.Steps == nil || *s.Steps != 11200 {
		t.Errorf("steps = %v", s.Steps)
	}
	if s.Weight == nil || *s.Weight != 81.4 {
		t.Errorf("weight = %v", s.Weight)
	}
	if s.BodyFat == nil || *s.BodyFat != 19.5 || s.HeartRate == nil || *s.HeartRate != 58 {
		t.Errorf("body fat %v, heart rate %v", s.BodyFat, s.HeartRate)
	}
	if s.MuscleMass != nil || s.SleepScore != nil {
		t.Error("metrics not given must stay nil")
	}

	s, err = ParseSync("date=2024-10-09 sleep=82", "2024-10-10")
	if err != nil || s.Date != "2024-10-09" || s.SleepScore == nil {
		t.Errorf("date override = %+v, %v", s, err)
	}
}

func TestParseSyncRejects(t *testing.T) {
	for _, args := range []string{
		"",
		"steps",
		"steps=",
		"steps=1.5",
		"weight=heavy",
		"mood=8",
		"date=yesterday",
	} {
		if _, err := ParseSync(args, "2024-10-10"); err == nil {
			t.Errorf("ParseSync(%q) accepted", args)
		}
	}
}

func TestToggleCallbackRoundTrip(t *testing.T) {
	data := toggleCallback(models.UserB, models.FlagCaloriesTracked, "2024-10-10")
	if len(data) > 64 {
		t.Errorf("callback data %q exceeds 64 bytes", data)
	}
	owner, flag, date, ok := parseToggleCallback(data)
	if !ok || owner != models.UserB || flag != models.FlagCaloriesTracked || date != "2024-10-10" {
		t.Errorf("parse = %q %q %q %v", owner, flag, date, ok)
	}

	for _, bad := range []string{
		"complete_12",
		"toggle:A:sauna",
		"toggle:C:sauna:2024-10-10",
		"toggle:A:yoga:2024-10-10",
		"toggle:A:sauna:2024-13-01",
	} {
		if _, _, _, ok := parseToggleCallback(bad); ok {
			t.Errorf("parseToggleCallback(%q) accepted", bad)
		}
	}
}
