package services

import (
	"context"
	"sort"
	"time"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// ExportRow joins a user's stored entry and sample for one day. Either may be
// nil, never both.
type ExportRow struct {
	Date   string                  `json:"date"`
	User   models.User             `json:"user"`
	Entry  *models.DailyEntry      `json:"entry"`
	Sample *models.BiometricSample `json:"sample"`
}

type Export struct {
	Start      string        `json:"start_date"`
	End        string        `json:"end_date"`
	Users      []models.User `json:"users"`
	ExportedAt time.Time     `json:"exported_at"`
	Rows       []ExportRow   `json:"rows"`
}

// Export collects every stored entry and sample of users inside [start, end],
// ordered by date and then user.
func (sm *ServiceManager) Export(ctx context.Context, users []models.User, start, end string) (*Export, error) {
	for _, u := range users {
		if err := validateUser(u); err != nil {
			return nil, err
		}
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}
	if days, _ := utils.DaysBetween(start, end); days >= MaxHistoryDays {
		return nil, invalidf("range longer than %d days", MaxHistoryDays)
	}

	out := &Export{Start: start, End: end, Users: users, ExportedAt: time.Now().UTC(), Rows: []ExportRow{}}
	for _, u := range users {
		entries, err := sm.repository.GetEntries(ctx, u, start, end)
		if err != nil {
			return nil, unavailable("load entries", err)
		}
		samples, err := sm.repository.GetSamples(ctx, u, start, end)
		if err != nil {
			return nil, unavailable("load samples", err)
		}

		byDate := make(map[string]*ExportRow)
		row := func(date string) *ExportRow {
			r, ok := byDate[date]
			if !ok {
				r = &ExportRow{Date: date, User: u}
				byDate[date] = r
			}
			return r
		}
		for i := range entries {
			row(entries[i].Date).Entry = &entries[i]
		}
		for i := range samples {
			row(samples[i].Date).Sample = &samples[i]
		}
		for _, r := range byDate {
			out.Rows = append(out.Rows, *r)
		}
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		if out.Rows[i].Date != out.Rows[j].Date {
			return out.Rows[i].Date < out.Rows[j].Date
		}
		return out.Rows[i].User < out.Rows[j].User
	})
	return out, nil
}
