package health

import (
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// DayRecord is one day of a dense series. Gap days keep every metric nil and
// HasData false.
type DayRecord struct {
	Date            string   `json:"date"`
	Weight          *float64 `json:"weight"`
	BodyFat         *float64 `json:"body_fat"`
	MuscleMass      *float64 `json:"muscle_mass"`
	WaterPercentage *float64 `json:"water_percentage"`
	BoneMass        *float64 `json:"bone_mass"`
	VisceralFat     *float64 `json:"visceral_fat"`
	Steps           *int     `json:"steps"`
	HeartRate       *float64 `json:"heart_rate"`
	SleepScore      *float64 `json:"sleep_score"`
	DataSource      *string  `json:"data_source"`
	LastSynced      *string  `json:"last_synced"`
	HasData         bool     `json:"has_data"`

	sample *models.BiometricSample
}

type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Extreme struct {
	Highest *Point `json:"highest"`
	Lowest  *Point `json:"lowest"`
}

type Goals struct {
	StepsGoal                int      `json:"steps_goal"`
	StepsGoalAchievementRate *float64 `json:"steps_goal_achievement_rate"`
	TotalGoalAchievements    int      `json:"total_goal_achievements"`
	TotalDaysWithSteps       int      `json:"total_days_with_steps"`
}

type Milestones struct {
	BestStepsDay   *Point `json:"best_steps_day"`
	WorstStepsDay  *Point `json:"worst_steps_day"`
	BestWeightDay  *Point `json:"best_weight_day"`
	WorstWeightDay *Point `json:"worst_weight_day"`
}

type Endpoint struct {
	Date    string   `json:"date"`
	Weight  *float64 `json:"weight"`
	BodyFat *float64 `json:"body_fat"`
}

type Summary struct {
	TotalDays        int                 `json:"total_days"`
	DaysWithData     int                 `json:"days_with_data"`
	DataCompleteness float64             `json:"data_completeness"`
	Averages         map[Metric]*float64 `json:"averages"`
	Progress         map[Metric]*float64 `json:"progress"`
	Goals            Goals               `json:"goals"`
	Extremes         map[Metric]Extreme  `json:"extremes"`
	Milestones       Milestones          `json:"milestones"`
	Baseline         *Endpoint           `json:"baseline"`
	Latest           *Endpoint           `json:"latest"`
}

type History struct {
	Start   string             `json:"start_date"`
	End     string             `json:"end_date"`
	Series  []DayRecord        `json:"data"`
	Summary Summary            `json:"summary"`
	Charts  map[Metric][]Point `json:"chart_data"`
}

// Complete builds a dense day-by-day history over [start, end]. Samples
// outside the range are ignored; when two samples share a date the later one
// in the slice wins. Every statistic only looks at days where its metric is
// present, so nothing is imputed from gaps.
func Complete(samples []models.BiometricSample, start, end string, stepsGoal int) History {
	byDate := make(map[string]*models.BiometricSample, len(samples))
	for i := range samples {
		byDate[samples[i].Date] = &samples[i]
	}

	days := utils.DateRange(start, end)
	series := make([]DayRecord, 0, len(days))
	var withData []*DayRecord
	for _, date := range days {
		series = append(series, dayRecord(date, byDate[date]))
	}
	for i := range series {
		if series[i].HasData {
			withData = append(withData, &series[i])
		}
	}

	summary := Summary{
		TotalDays:    len(series),
		DaysWithData: len(withData),
		Averages:     make(map[Metric]*float64, len(Metrics)),
		Progress:     make(map[Metric]*float64, len(Metrics)),
		Extremes:     make(map[Metric]Extreme, len(Metrics)),
		Goals:        Goals{StepsGoal: stepsGoal},
	}
	if summary.TotalDays > 0 {
		summary.DataCompleteness = Round1(float64(summary.DaysWithData) / float64(summary.TotalDays) * 100)
	}

	charts := make(map[Metric][]Point, len(Metrics))
	for _, m := range Metrics {
		points := make([]Point, 0)
		for _, rec := range withData {
			if v := Value(rec.sample, m); v != nil {
				points = append(points, Point{Date: rec.Date, Value: *v})
			}
		}
		charts[m] = points
		summary.Averages[m] = average(points)
		summary.Extremes[m] = extremes(points)
	}

	if len(withData) > 0 {
		baseline := withData[0]
		latest := withData[len(withData)-1]
		for _, m := range Metrics {
			summary.Progress[m] = Trend(Value(latest.sample, m), Value(baseline.sample, m))
		}
		summary.Baseline = endpoint(baseline)
		summary.Latest = endpoint(latest)
	} else {
		for _, m := range Metrics {
			summary.Progress[m] = nil
		}
	}

	achieved := 0
	for _, p := range charts[Steps] {
		if p.Value >= float64(stepsGoal) {
			achieved++
		}
	}
	summary.Goals.TotalGoalAchievements = achieved
	summary.Goals.TotalDaysWithSteps = len(charts[Steps])
	if n := len(charts[Steps]); n > 0 {
		rate := Round1(float64(achieved) / float64(n) * 100)
		summary.Goals.StepsGoalAchievementRate = &rate
	}

	summary.Milestones = Milestones{
		BestStepsDay:   summary.Extremes[Steps].Highest,
		WorstStepsDay:  summary.Extremes[Steps].Lowest,
		BestWeightDay:  summary.Extremes[Weight].Lowest,
		WorstWeightDay: summary.Extremes[Weight].Highest,
	}

	return History{
		Start:   start,
		End:     end,
		Series:  series,
		Summary: summary,
		Charts:  charts,
	}
}

func dayRecord(date string, s *models.BiometricSample) DayRecord {
	if s == nil {
		return DayRecord{Date: date}
	}
	rec := DayRecord{
		Date:            date,
		Weight:          s.Weight,
		BodyFat:         s.BodyFat,
		MuscleMass:      s.MuscleMass,
		WaterPercentage: s.WaterPercentage,
		BoneMass:        s.BoneMass,
		VisceralFat:     s.VisceralFat,
		Steps:           s.Steps,
		HeartRate:       s.HeartRate,
		SleepScore:      s.SleepScore,
		HasData:         true,
		sample:          s,
	}
	if s.Source != "" {
		source := s.Source
		rec.DataSource = &source
	}
	if !s.SyncedAt.IsZero() {
		synced := s.SyncedAt.UTC().Format("2006-01-02T15:04:05Z")
		rec.LastSynced = &synced
	}
	return rec
}

func endpoint(rec *DayRecord) *Endpoint {
	return &Endpoint{Date: rec.Date, Weight: rec.Weight, BodyFat: rec.BodyFat}
}

func average(points []Point) *float64 {
	if len(points) == 0 {
		return nil
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Value
	}
	avg := Round1(sum / float64(len(points)))
	return &avg
}

// extremes scans points in date order, so ties keep the earliest date.
func extremes(points []Point) Extreme {
	var e Extreme
	for i := range points {
		p := points[i]
		if e.Highest == nil || p.Value > e.Highest.Value {
			e.Highest = &p
		}
		if e.Lowest == nil || p.Value < e.Lowest.Value {
			e.Lowest = &p
		}
	}
	return e
}
