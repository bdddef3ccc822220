// Package health reconciles synced biometric samples with the daily
// checklist and derives trends and dense history views from them.
package health

import (
	"math"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
)

type Metric string

const (
	Weight          Metric = "weight"
	BodyFat         Metric = "body_fat"
	MuscleMass      Metric = "muscle_mass"
	WaterPercentage Metric = "water_percentage"
	BoneMass        Metric = "bone_mass"
	VisceralFat     Metric = "visceral_fat"
	Steps           Metric = "steps"
	HeartRate       Metric = "heart_rate"
	SleepScore      Metric = "sleep_score"
)

// Metrics lists every sample metric in a fixed order.
var Metrics = []Metric{
	Weight,
	BodyFat,
	MuscleMass,
	WaterPercentage,
	BoneMass,
	VisceralFat,
	Steps,
	HeartRate,
	SleepScore,
}

var Units = map[Metric]string{
	Weight:          "kg",
	BodyFat:         "%",
	MuscleMass:      "kg",
	WaterPercentage: "%",
	BoneMass:        "kg",
	VisceralFat:     "level",
	Steps:           "steps",
	HeartRate:       "bpm",
	SleepScore:      "/100",
}

// Value reads one metric from a sample; nil means not measured.
func Value(s *models.BiometricSample, m Metric) *float64 {
	if s == nil {
		return nil
	}
	switch m {
	case Weight:
		return s.Weight
	case BodyFat:
		return s.BodyFat
	case MuscleMass:
		return s.MuscleMass
	case WaterPercentage:
		return s.WaterPercentage
	case BoneMass:
		return s.BoneMass
	case VisceralFat:
		return s.VisceralFat
	case Steps:
		if s.Steps == nil {
			return nil
		}
		v := float64(*s.Steps)
		return &v
	case HeartRate:
		return s.HeartRate
	case SleepScore:
		return s.SleepScore
	}
	return nil
}

// HasAny reports whether at least one metric is present.
func HasAny(s *models.BiometricSample) bool {
	for _, m := range Metrics {
		if Value(s, m) != nil {
			return true
		}
	}
	return false
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
