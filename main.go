// Package main is the entry point for the FinanceIO personal finance tracker.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitlab.com/financeio/financeio/internal/api"
	"gitlab.com/financeio/financeio/internal/config"
	"gitlab.com/financeio/financeio/internal/database"
	"gitlab.com/financeio/financeio/internal/logger"
	"gitlab.com/financeio/financeio/internal/reminder"
	"gitlab.com/financeio/financeio/internal/repository"
	"gitlab.com/financeio/financeio/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("financeio %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logger.SetJSON()
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to set up telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := database.SeedCategories(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to seed default categories")
	}

	logger.Log.Info().Msg("Database initialized successfully")

	reminderLoop := reminder.NewLoop(
		cfg.DailyReminderEnabled,
		cfg.ReminderHour,
		cfg.ReminderTimezone,
		repository.NewExpenseRepository(pool),
		reminder.LogNotifier{},
	)
	go reminderLoop.Run(ctx)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(pool).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	logger.Log.Info().Str("addr", cfg.ListenAddr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal().Err(err).Msg("Server failed")
	}
}
