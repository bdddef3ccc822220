package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

type Handler struct {
	services *services.ServiceManager
	today    func() string
}

func NewHandler(sm *services.ServiceManager) *Handler {
	return &Handler{services: sm, today: utils.Today}
}

type entryRequest struct {
	Checklist models.Checklist `json:"checklist"`
	Notes     string           `json:"notes"`
}

type sampleRequest struct {
	Date            string   `json:"date" binding:"required"`
	User            string   `json:"user" binding:"required"`
	Weight          *float64 `json:"weight"`
	BodyFat         *float64 `json:"body_fat"`
	MuscleMass      *float64 `json:"muscle_mass"`
	WaterPercentage *float64 `json:"water_percentage"`
	BoneMass        *float64 `json:"bone_mass"`
	VisceralFat     *float64 `json:"visceral_fat"`
	Steps           *int     `json:"steps"`
	HeartRate       *float64 `json:"heart_rate"`
	SleepScore      *float64 `json:"sleep_score"`
	DataSource      string   `json:"data_source"`
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.services.Ping(c.Request.Context()); err != nil {
		Error(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	Success(c, gin.H{"status": "ok", "time": utils.GetTimezoneInfo()})
}

// GetEntry returns the stored day, or an empty one.
func (h *Handler) GetEntry(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}
	entry, err := h.services.Checklist.GetDay(c.Request.Context(), user, c.Param("date"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, entry)
}

func (h *Handler) ListEntries(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}
	end := c.DefaultQuery("endDate", h.today())
	start := c.DefaultQuery("startDate", utils.AddDays(end, -(services.DefaultHistory - 1)))

	entries, err := h.services.Checklist.Entries(c.Request.Context(), user, start, end)
	if err != nil {
		Fail(c, err)
		return
	}
	if entries == nil {
		entries = []models.DailyEntry{}
	}
	Success(c, entries)
}

func (h *Handler) SubmitEntry(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid body: "+err.Error())
		return
	}
	entry, err := h.services.Checklist.SubmitDay(c.Request.Context(), user, c.Param("date"), req.Checklist, req.Notes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, entry)
}

func (h *Handler) SyncHealthData(c *gin.Context) {
	var req sampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid body: "+err.Error())
		return
	}
	user, ok := ParseUser(req.User, h.services.DisplayName)
	if !ok {
		BadRequest(c, "unknown user "+req.User)
		return
	}

	saved, err := h.services.Health.SyncSample(c.Request.Context(), models.BiometricSample{
		Date:            req.Date,
		User:            user,
		Weight:          req.Weight,
		BodyFat:         req.BodyFat,
		MuscleMass:      req.MuscleMass,
		WaterPercentage: req.WaterPercentage,
		BoneMass:        req.BoneMass,
		VisceralFat:     req.VisceralFat,
		Steps:           req.Steps,
		HeartRate:       req.HeartRate,
		SleepScore:      req.SleepScore,
		Source:          req.DataSource,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, saved)
}

func (h *Handler) HealthMetrics(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}
	snap, err := h.services.Health.Snapshot(c.Request.Context(), user, c.DefaultQuery("date", h.today()))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, snap)
}

// HealthHistory defaults to the last 30 days ending today.
func (h *Handler) HealthHistory(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}
	end := c.DefaultQuery("endDate", h.today())
	start := c.DefaultQuery("startDate", utils.AddDays(end, -(services.DefaultHistory - 1)))

	history, err := h.services.Health.History(c.Request.Context(), user, start, end)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, history)
}

func (h *Handler) Competition(c *gin.Context) {
	date := c.DefaultQuery("date", h.today())

	var (
		report *services.CompetitionReport
		err    error
	)
	switch c.DefaultQuery("scope", "week") {
	case "week":
		report, err = h.services.Competition.Standings(c.Request.Context(), date)
	case "challenge":
		report, err = h.services.Competition.ChallengeStandings(c.Request.Context(), date)
	default:
		BadRequest(c, "scope must be week or challenge")
		return
	}
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, report)
}

func (h *Handler) Streak(c *gin.Context) {
	user, ok := h.user(c)
	if !ok {
		return
	}
	rec, err := h.services.Streak.Get(c.Request.Context(), user)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rec)
}

func (h *Handler) user(c *gin.Context) (models.User, bool) {
	raw := c.Param("user")
	user, ok := ParseUser(raw, h.services.DisplayName)
	if !ok {
		BadRequest(c, "unknown user "+raw)
	}
	return user, ok
}

// ParseUser accepts a user code (A, B) or a display name, ignoring case.
func ParseUser(s string, names func(models.User) string) (models.User, bool) {
	s = strings.TrimSpace(s)
	for _, u := range []models.User{models.UserA, models.UserB} {
		if strings.EqualFold(s, string(u)) || (names != nil && strings.EqualFold(s, names(u))) {
			return u, true
		}
	}
	return "", false
}
