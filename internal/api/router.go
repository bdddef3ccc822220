package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bobkonczak/health-tracking-pro/internal/monitoring"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
)

const requestsPerMinute = 120

func NewRouter(sm *services.ServiceManager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggerMiddleware(), monitoring.MetricsMiddleware())
	router.Use(RateLimiter(requestsPerMinute, time.Minute))

	h := NewHandler(sm)
	registerRoutes(router, h)
	return router
}

func registerRoutes(router *gin.Engine, h *Handler) {
	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/entries/:user", h.ListEntries)
		api.GET("/entries/:user/:date", h.GetEntry)
		api.POST("/entries/:user/:date", h.SubmitEntry)

		api.POST("/health-data", h.SyncHealthData)
		api.GET("/health-metrics/:user", h.HealthMetrics)
		api.GET("/health-history/:user", h.HealthHistory)

		api.GET("/competition", h.Competition)
		api.GET("/streaks/:user", h.Streak)

		api.GET("/export", h.Export)
	}
}
