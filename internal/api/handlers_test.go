package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bobkonczak/health-tracking-pro/internal/config"
	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/models"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) (*gin.Engine, *database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Challenge: config.ChallengeConfig{Start: "2024-09-15", Weeks: 12, StaleAfterDays: 1},
		Users:     config.UsersConfig{AName: "Bob", BName: "Paula"},
		WeekStart: time.Monday,
	}
	h := NewHandler(services.NewServiceManager(db, cfg))
	h.today = func() string { return "2024-10-10" }

	router := gin.New()
	router.Use(RequestIDMiddleware())
	registerRoutes(router, h)
	return router, db
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
	}
	return w, env
}

func TestSubmitAndGetEntry(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]any{
		"checklist": map[string]any{
			"no_sugar":        true,
			"training":        true,
			"morning_routine": true,
			"steps_10k":       true,
		},
		"notes": "first day",
	}
	w, env := do(t, router, http.MethodPost, "/api/entries/A/2024-10-10", body)
	if w.Code != http.StatusOK {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body.String())
	}

	var entry models.DailyEntry
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.DailyPoints != 8 || entry.TotalPoints != 10 {
		t.Errorf("entry = %+v", entry)
	}

	w, env = do(t, router, http.MethodGet, "/api/entries/bob/2024-10-10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Notes != "first day" || entry.User != models.UserA {
		t.Errorf("entry = %+v", entry)
	}
}

func TestBadRequests(t *testing.T) {
	router, _ := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"malformed date", http.MethodGet, "/api/entries/A/10-10-2024", nil},
		{"unknown user", http.MethodGet, "/api/entries/C/2024-10-10", nil},
		{"bad fasting time", http.MethodPost, "/api/entries/A/2024-10-10", map[string]any{"checklist": map[string]any{"fasting_time": "7pm"}}},
		{"inverted history range", http.MethodGet, "/api/health-history/A?startDate=2024-10-10&endDate=2024-10-01", nil},
		{"bad competition scope", http.MethodGet, "/api/competition?scope=year", nil},
		{"sample without metrics", http.MethodPost, "/api/health-data", map[string]any{"date": "2024-10-10", "user": "A"}},
		{"sample without user", http.MethodPost, "/api/health-data", map[string]any{"date": "2024-10-10", "weight": 80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, router, tt.method, tt.path, tt.body)
			if w.Code != http.StatusBadRequest || env.Code != http.StatusBadRequest {
				t.Errorf("status = %d (envelope %d), want 400: %s", w.Code, env.Code, env.Message)
			}
		})
	}
}

func TestStoreUnavailable(t *testing.T) {
	router, db := setupRouter(t)
	db.Close()

	w, env := do(t, router, http.MethodGet, "/api/entries/A/2024-10-10", nil)
	if w.Code != http.StatusServiceUnavailable || env.Message != "data unavailable" {
		t.Errorf("status = %d %q, want 503", w.Code, env.Message)
	}

	w, _ = do(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("healthz status = %d, want 503", w.Code)
	}
}

func TestHealthDataFlow(t *testing.T) {
	router, _ := setupRouter(t)

	for _, s := range []map[string]any{
		{"date": "2024-10-09", "user": "A", "weight": 81.6, "steps": 8000},
		{"date": "2024-10-10", "user": "A", "weight": 81.2, "steps": 12000, "data_source": "withings"},
	} {
		if w, env := do(t, router, http.MethodPost, "/api/health-data", s); w.Code != http.StatusOK {
			t.Fatalf("sync status = %d: %s", w.Code, env.Message)
		}
	}

	_, env := do(t, router, http.MethodGet, "/api/health-metrics/A", nil)
	var snap struct {
		Date    string `json:"date"`
		Stale   bool   `json:"stale"`
		Metrics map[string]struct {
			Value *float64 `json:"value"`
			Trend *float64 `json:"trend"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Date != "2024-10-10" || snap.Stale {
		t.Errorf("snapshot date = %s stale = %v", snap.Date, snap.Stale)
	}
	if tr := snap.Metrics["weight"].Trend; tr == nil || *tr != -0.4 {
		t.Errorf("weight trend = %v, want -0.4", tr)
	}

	_, env = do(t, router, http.MethodGet, "/api/health-history/A?startDate=2024-10-01&endDate=2024-10-10", nil)
	var history struct {
		Data    []json.RawMessage `json:"data"`
		Summary struct {
			DataCompleteness float64 `json:"data_completeness"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatal(err)
	}
	if len(history.Data) != 10 || history.Summary.DataCompleteness != 20 {
		t.Errorf("history has %d days at %v%%", len(history.Data), history.Summary.DataCompleteness)
	}
}

func TestCompetitionAndStreak(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]any{"checklist": map[string]any{"sauna": true}}
	if w, _ := do(t, router, http.MethodPost, "/api/entries/B/2024-10-08", body); w.Code != http.StatusOK {
		t.Fatalf("submit status = %d", w.Code)
	}

	_, env := do(t, router, http.MethodGet, "/api/competition?date=2024-10-10", nil)
	var report struct {
		Leader string         `json:"leader"`
		Margin int            `json:"margin"`
		Totals map[string]int `json:"totals"`
		Scope  string         `json:"scope"`
	}
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatal(err)
	}
	if report.Leader != "B" || report.Margin != 1 || report.Scope != "week" {
		t.Errorf("report = %+v", report)
	}

	w, env := do(t, router, http.MethodGet, "/api/streaks/paula", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("streak status = %d", w.Code)
	}
	var rec models.StreakRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.User != models.UserB {
		t.Errorf("record = %+v", rec)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := setupRouter(t)

	w, _ := do(t, router, http.MethodGet, "/healthz", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestParseUser(t *testing.T) {
	names := func(u models.User) string {
		if u == models.UserA {
			return "Bob"
		}
		return "Paula"
	}
	tests := []struct {
		in   string
		want models.User
		ok   bool
	}{
		{"A", models.UserA, true},
		{"b", models.UserB, true},
		{"PAULA", models.UserB, true},
		{" bob ", models.UserA, true},
		{"carol", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseUser(tt.in, names)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseUser(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExportCSV(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]any{"checklist": map[string]any{"training": true}, "notes": "legs, core"}
	if w, _ := do(t, router, http.MethodPost, "/api/entries/A/2024-10-09", body); w.Code != http.StatusOK {
		t.Fatalf("submit status = %d", w.Code)
	}
	sample := map[string]any{"date": "2024-10-10", "user": "B", "weight": 64.2}
	if w, _ := do(t, router, http.MethodPost, "/api/health-data", sample); w.Code != http.StatusOK {
		t.Fatalf("sync status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/export?startDate=2024-10-01&endDate=2024-10-10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", w.Code, w.Body.String())
	}

	records, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %q", records)
	}
	header := records[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %q", name)
		return -1
	}
	bob, paula := records[1], records[2]
	if bob[col("user")] != "Bob" || bob[col("training")] != "true" || bob[col("total_points")] != "2" || bob[col("notes")] != "legs, core" {
		t.Errorf("Bob row = %q", bob)
	}
	if paula[col("user")] != "Paula" || paula[col("weight")] != "64.2" || paula[col("total_points")] != "" {
		t.Errorf("Paula row = %q", paula)
	}
}

func TestExportJSONForOneUser(t *testing.T) {
	router, _ := setupRouter(t)

	w, env := do(t, router, http.MethodGet, "/api/export?format=json&user=paula", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var export struct {
		Users []string          `json:"users"`
		Rows  []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(env.Data, &export); err != nil {
		t.Fatal(err)
	}
	if len(export.Users) != 1 || export.Users[0] != "B" || len(export.Rows) != 0 {
		t.Errorf("export = %+v", export)
	}

	if w, _ := do(t, router, http.MethodGet, "/api/export?format=xml", nil); w.Code != http.StatusBadRequest {
		t.Errorf("xml status = %d, want 400", w.Code)
	}
}
