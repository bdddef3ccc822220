package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bobkonczak/health-tracking-pro/internal/health"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

// Export serves stored entries and samples as CSV (default) or JSON.
// ?user= limits the export to one participant.
func (h *Handler) Export(c *gin.Context) {
	users := []models.User{models.UserA, models.UserB}
	if raw := c.Query("user"); raw != "" {
		u, ok := ParseUser(raw, h.services.DisplayName)
		if !ok {
			BadRequest(c, fmt.Sprintf("unknown user %q", raw))
			return
		}
		users = []models.User{u}
	}

	end := c.DefaultQuery("endDate", h.today())
	start := c.DefaultQuery("startDate", utils.AddDays(end, -(services.DefaultHistory - 1)))
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		BadRequest(c, fmt.Sprintf("unknown format %q", format))
		return
	}

	export, err := h.services.Export(c.Request.Context(), users, start, end)
	if err != nil {
		Fail(c, err)
		return
	}

	if format == "json" {
		Success(c, export)
		return
	}

	filename := fmt.Sprintf("health-tracking-%s-%s.csv", export.Start, export.End)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := WriteCSV(c.Writer, export, h.services.DisplayName); err != nil {
		_ = c.Error(err)
	}
}

// WriteCSV writes one line per exported row with checklist flags, scores
// and every metric. Unmeasured metrics are empty cells.
func WriteCSV(w io.Writer, export *services.Export, names func(models.User) string) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "user"}
	for _, f := range models.Flags {
		header = append(header, string(f))
	}
	header = append(header, "fasting_time", "fasting_points", "daily_points", "bonus_points", "total_points", "streak")
	for _, m := range health.Metrics {
		header = append(header, string(m))
	}
	header = append(header, "data_source", "notes")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range export.Rows {
		record := []string{r.Date, names(r.User)}
		if e := r.Entry; e != nil {
			for _, f := range models.Flags {
				record = append(record, strconv.FormatBool(e.Checklist.Get(f)))
			}
			record = append(record,
				e.Checklist.FastingTime,
				strconv.Itoa(e.Checklist.FastingPoints),
				strconv.Itoa(e.DailyPoints),
				strconv.Itoa(e.BonusPoints),
				strconv.Itoa(e.TotalPoints),
				strconv.Itoa(e.Streak),
			)
		} else {
			record = append(record, make([]string, len(models.Flags)+6)...)
		}

		for _, m := range health.Metrics {
			cell := ""
			if v := health.Value(r.Sample, m); v != nil {
				cell = strconv.FormatFloat(*v, 'f', -1, 64)
			}
			record = append(record, cell)
		}
		source, notes := "", ""
		if r.Sample != nil {
			source = r.Sample.Source
		}
		if r.Entry != nil {
			notes = r.Entry.Notes
		}
		record = append(record, source, notes)

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
