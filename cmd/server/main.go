package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/bistro/internal/config"
	"github.com/example/bistro/internal/database"
	"github.com/example/bistro/internal/logging"
	"github.com/example/bistro/internal/routes"
	"github.com/example/bistro/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	db, err := database.Connect(database.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		slog.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		slog.Error("seed admin", slog.Any("error", err))
		os.Exit(1)
	}

	var events services.EventPublisher = services.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		events = services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		slog.Info("publishing domain events", slog.Any("brokers", cfg.KafkaBrokers))
	}

	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	if !telegram.Enabled() {
		slog.Info("telegram notifications disabled")
	}
	dispatcher := services.NewDispatcher(telegram, events)

	app := routes.NewApp(cfg)
	routes.Register(app, routes.Deps{
		DB:         db,
		Config:     cfg,
		Dispatcher: dispatcher,
		Mailer:     services.NewLogMailer(logger),
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown", slog.Any("error", err))
		}
	}()

	slog.Info("starting server", slog.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		slog.Error("fiber.Listen error", slog.Any("error", err))
	}

	dispatcher.Wait()
	if err := events.Close(); err != nil {
		slog.Warn("close event publisher", slog.Any("error", err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
