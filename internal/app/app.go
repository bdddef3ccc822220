package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/api"
	"github.com/bobkonczak/health-tracking-pro/internal/config"
	"github.com/bobkonczak/health-tracking-pro/internal/database"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
	"github.com/bobkonczak/health-tracking-pro/internal/monitoring"
	"github.com/bobkonczak/health-tracking-pro/internal/services"
	"github.com/bobkonczak/health-tracking-pro/internal/telegram"
	"github.com/bobkonczak/health-tracking-pro/internal/utils"
)

const (
	dailySummaryAt    = "21:30"
	streakRecomputeAt = "00:05"
	shutdownTimeout   = 10 * time.Second
)

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	services   *services.ServiceManager
	server     *http.Server
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	utils.SetLocation(cfg.Location)
	monitoring.Init()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	serviceManager := services.NewServiceManager(db, cfg)
	if err := serviceManager.Rules().Validate(); err != nil {
		db.Close()
		return nil, err
	}
	bot, err := telegram.NewBot(cfg, serviceManager)
	if err != nil {
		db.Close()
		return nil, err
	}
	serviceManager.SetNotificationSender(bot)

	gin.SetMode(cfg.Server.Mode)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:   cfg,
		db:       db,
		bot:      bot,
		services: serviceManager,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           api.NewRouter(serviceManager),
			ReadHeaderTimeout: 10 * time.Second,
		},
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.Recover(cronLogger{})),
		),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	if err := app.setupCronJobs(); err != nil {
		cancel()
		db.Close()
		return nil, err
	}

	return app, nil
}

func (a *Application) Start() error {
	logger.Log.Info("🚀 Starting application")

	go a.bot.Start(a.ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("❌ HTTP server failed", zap.Error(err))
		}
	}()

	a.cron.Start()

	// Streaks may be stale after downtime.
	a.services.Notification.RecomputeStreaks(a.ctx)

	a.sendWelcomeMessage()

	logger.Log.Info("✅ Application started",
		zap.String("bot", "@"+a.bot.GetUsername()),
		zap.String("port", a.config.Server.Port),
		zap.String("timezone", utils.GetTimezoneInfo()),
	)
	return nil
}

func (a *Application) Stop() error {
	logger.Log.Info("🛑 Stopping application")

	a.cancelFunc()
	<-a.cron.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		logger.Log.Warn("⚠️ HTTP server shutdown", zap.Error(err))
	}

	if err := a.db.Close(); err != nil {
		logger.Log.Warn("⚠️ Failed to close database", zap.Error(err))
	}

	logger.Log.Info("✅ Application stopped")
	return nil
}

func (a *Application) setupCronJobs() error {
	n := a.services.Notification

	for _, r := range services.DefaultReminders {
		r := r
		if err := a.addDailyJob(r.At, "reminder_"+r.Kind, func(ctx context.Context) {
			n.SendReminder(ctx, r)
		}); err != nil {
			return err
		}
	}

	if err := a.addDailyJob(dailySummaryAt, "daily_summary", n.SendDailySummary); err != nil {
		return err
	}
	if err := a.addDailyJob(streakRecomputeAt, "streak_recompute", n.RecomputeStreaks); err != nil {
		return err
	}

	weekly, err := cronSpec(services.WeeklyResultsAt, "0")
	if err != nil {
		return err
	}
	return a.addJob(weekly, "weekly_results", n.SendWeeklyResults)
}

func (a *Application) addDailyJob(at, name string, job func(context.Context)) error {
	spec, err := cronSpec(at, "*")
	if err != nil {
		return err
	}
	return a.addJob(spec, name, job)
}

func (a *Application) addJob(spec, name string, job func(context.Context)) error {
	_, err := a.cron.AddFunc(spec, func() {
		logger.Log.Debug("⏰ Cron job", zap.String("job", name))
		job(a.ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

// cronSpec turns a local HH:MM and a day-of-week field into a five-field
// cron expression.
func cronSpec(hhmm, weekday string) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil || !utils.IsValidClock(hhmm) {
		return "", fmt.Errorf("invalid schedule time %q", hhmm)
	}
	return fmt.Sprintf("%d %d * * %s", t.Minute(), t.Hour(), weekday), nil
}

func (a *Application) sendWelcomeMessage() {
	message := fmt.Sprintf(`💪 <b>Health Tracking Pro</b>

Tracker is running!

Today: %s
%s

/today - today's checklist
/week - this week's standings
/help - all commands`, utils.Today(), utils.GetTimezoneInfo())

	if err := a.bot.SendMessage(message); err != nil {
		logger.Log.Warn("⚠️ Failed to send welcome message", zap.Error(err))
	}
}

// cronLogger routes cron's own messages to zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Log.Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
