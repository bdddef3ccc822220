package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bobkonczak/health-tracking-pro/internal/app"
	"github.com/bobkonczak/health-tracking-pro/internal/config"
	"github.com/bobkonczak/health-tracking-pro/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg)
	defer logger.Sync()

	application, err := app.New(cfg)
	if err != nil {
		logger.Log.Fatal("❌ Failed to create application", zap.Error(err))
	}

	if err := application.Start(); err != nil {
		logger.Log.Fatal("❌ Failed to start application", zap.Error(err))
	}
	defer application.Stop()

	waitForShutdown()
	logger.Log.Info("👋 Shutting down")
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
