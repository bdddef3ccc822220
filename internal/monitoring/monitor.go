package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)

	ScoredDays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_scored_days_total",
			Help: "Daily checklists scored, by user and tier",
		},
		[]string{"user", "tier"},
	)

	SamplesSynced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_samples_synced_total",
			Help: "Biometric samples stored, by data source",
		},
		[]string{"source"},
	)

	CurrentStreak = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "health_current_streak_days",
			Help: "Current streak per user",
		},
		[]string{"user"},
	)

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_notifications_total",
			Help: "Notifications pushed to the chat, by kind and result",
		},
		[]string{"kind", "result"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			ScoredDays,
			SamplesSynced,
			CurrentStreak,
			NotificationsSent,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
