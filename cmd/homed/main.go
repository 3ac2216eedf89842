package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homecontrol/config"
	"homecontrol/internal/application"
	"homecontrol/internal/infra/httpapi"
	"homecontrol/internal/infra/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fileStore := storage.NewFileStore(cfg.Storage.Path, logger)
	store := application.NewHomeStore(fileStore, logger)

	telemetry := application.NewRandomTelemetry(time.Now().UnixNano())
	survey := application.NewSurveyController(store, telemetry, logger)
	scenes := application.NewSceneRunner(store, logger)
	notifier := &application.LogNotifier{Logger: logger}

	server := httpapi.NewServer(cfg.Server.Addr, store, survey, scenes, notifier, logger)

	if err := server.Start(ctx); err != nil {
		logger.Error("starting server", "error", err)
		os.Exit(1)
	}

	logger.Info("home control started",
		"addr", cfg.Server.Addr,
		"snapshot", cfg.Storage.Path,
		"survey_completed", store.SurveyCompleted(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()

	if err := server.Stop(); err != nil {
		logger.Error("stopping server", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
