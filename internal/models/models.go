package models

import "time"

// DateLayout is the calendar-date format used for every per-day key.
const DateLayout = "2006-01-02"

type User string

const (
	UserA User = "A"
	UserB User = "B"
)

type Flag string

const (
	FlagNoSugar         Flag = "no_sugar"
	FlagNoAlcohol       Flag = "no_alcohol"
	FlagTraining        Flag = "training"
	FlagMorningRoutine  Flag = "morning_routine"
	FlagSauna           Flag = "sauna"
	FlagSteps10k        Flag = "steps_10k"
	FlagSupplements     Flag = "supplements"
	FlagWeighedIn       Flag = "weighed_in"
	FlagCaloriesTracked Flag = "calories_tracked"
)

// Flags lists the boolean checklist flags in display order. Fasting is
// tiered and handled separately.
var Flags = []Flag{
	FlagNoSugar,
	FlagNoAlcohol,
	FlagTraining,
	FlagMorningRoutine,
	FlagSauna,
	FlagSteps10k,
	FlagSupplements,
	FlagWeighedIn,
	FlagCaloriesTracked,
}

var FlagNames = map[Flag]string{
	FlagNoSugar:         "🍬 No sugar",
	FlagNoAlcohol:       "🍷 No alcohol",
	FlagTraining:        "🏋️ Training",
	FlagMorningRoutine:  "🌅 Morning routine",
	FlagSauna:           "🧖 Sauna",
	FlagSteps10k:        "🚶 10k steps",
	FlagSupplements:     "💊 Supplements",
	FlagWeighedIn:       "⚖️ Weighed in",
	FlagCaloriesTracked: "📒 Calories tracked",
}

type Checklist struct {
	NoSugar         bool   `json:"no_sugar"`
	NoAlcohol       bool   `json:"no_alcohol"`
	FastingTime     string `json:"fasting_time,omitempty"` // HH:MM of the last meal
	FastingPoints   int    `json:"fasting_points"`         // 0, 2 or 3
	Training        bool   `json:"training"`
	MorningRoutine  bool   `json:"morning_routine"`
	Sauna           bool   `json:"sauna"`
	Steps10k        bool   `json:"steps_10k"`
	Supplements     bool   `json:"supplements"`
	WeighedIn       bool   `json:"weighed_in"`
	CaloriesTracked bool   `json:"calories_tracked"`
}

// Get reports the value of a boolean flag. Unknown flags read as false.
func (c Checklist) Get(f Flag) bool {
	switch f {
	case FlagNoSugar:
		return c.NoSugar
	case FlagNoAlcohol:
		return c.NoAlcohol
	case FlagTraining:
		return c.Training
	case FlagMorningRoutine:
		return c.MorningRoutine
	case FlagSauna:
		return c.Sauna
	case FlagSteps10k:
		return c.Steps10k
	case FlagSupplements:
		return c.Supplements
	case FlagWeighedIn:
		return c.WeighedIn
	case FlagCaloriesTracked:
		return c.CaloriesTracked
	}
	return false
}

// Set returns a copy of the checklist with the flag set to v. The second
// result is false when the flag is unknown.
func (c Checklist) Set(f Flag, v bool) (Checklist, bool) {
	switch f {
	case FlagNoSugar:
		c.NoSugar = v
	case FlagNoAlcohol:
		c.NoAlcohol = v
	case FlagTraining:
		c.Training = v
	case FlagMorningRoutine:
		c.MorningRoutine = v
	case FlagSauna:
		c.Sauna = v
	case FlagSteps10k:
		c.Steps10k = v
	case FlagSupplements:
		c.Supplements = v
	case FlagWeighedIn:
		c.WeighedIn = v
	case FlagCaloriesTracked:
		c.CaloriesTracked = v
	default:
		return c, false
	}
	return c, true
}

type DailyEntry struct {
	Date        string    `json:"date"`
	User        User      `json:"user"`
	Checklist   Checklist `json:"checklist"`
	DailyPoints int       `json:"daily_points"`
	BonusPoints int       `json:"bonus_points"`
	TotalPoints int       `json:"total_points"`
	Streak      int       `json:"streak"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BiometricSample holds one day of synced measurements. A nil field means the
// metric was not measured, which is distinct from a zero reading.
type BiometricSample struct {
	Date            string    `json:"date"`
	User            User      `json:"user"`
	Weight          *float64  `json:"weight,omitempty"`
	BodyFat         *float64  `json:"body_fat,omitempty"`
	MuscleMass      *float64  `json:"muscle_mass,omitempty"`
	WaterPercentage *float64  `json:"water_percentage,omitempty"`
	BoneMass        *float64  `json:"bone_mass,omitempty"`
	VisceralFat     *float64  `json:"visceral_fat,omitempty"`
	Steps           *int      `json:"steps,omitempty"`
	HeartRate       *float64  `json:"heart_rate,omitempty"`
	SleepScore      *float64  `json:"sleep_score,omitempty"`
	Source          string    `json:"data_source,omitempty"`
	SyncedAt        time.Time `json:"last_synced"`
}

type StreakRecord struct {
	User             User   `json:"user"`
	CurrentStreak    int    `json:"current_streak"`
	BestStreak       int    `json:"best_streak"`
	LastActivityDate string `json:"last_activity_date"`
}

// DayTotal is the projection of a DailyEntry the streak tracker works on.
type DayTotal struct {
	Date        string `json:"date"`
	TotalPoints int    `json:"total_points"`
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
