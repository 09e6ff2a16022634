package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnold/healthgoals-api/internal/config"
	"github.com/arnold/healthgoals-api/internal/database"
	"github.com/arnold/healthgoals-api/internal/handlers"
	"github.com/arnold/healthgoals-api/internal/logger"
	"github.com/arnold/healthgoals-api/internal/routes"
	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"
)

const evictionInterval = 10 * time.Minute

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.DatabaseURL, logLevel)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	hub := handlers.NewHub()
	sessions := services.NewSessionService(database.NewSessionRepository(db), cfg.SessionTTL)
	push := services.NewPushService(lifecycleCtx, cfg.FCMServiceAccount, sessions)
	goals := services.NewGoalService(database.NewGoalRepository(db), push, hub, cfg.SeedDemoGoals)
	goals.StartEviction(lifecycleCtx, cfg.SessionTTL, evictionInterval)

	app := newApp(routes.Handlers{
		Goals:         handlers.NewGoalHandler(goals),
		Sessions:      handlers.NewSessionHandler(sessions, goals, cfg.JWTSecret),
		Hub:           hub,
		JWTSecret:     cfg.JWTSecret,
		ActiveSession: sessions.Active,
	})

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("healthgoals listening", "port", cfg.Port, "env", cfg.AppEnv, "push", push.Enabled())
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp(h routes.Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Health Goals",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	routes.Setup(app, h)
	return app
}
