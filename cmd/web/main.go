package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"penguindash/internal/app"
	"penguindash/internal/config"
	"penguindash/internal/infrastructure"
)

// Embedded dashboard page and static assets
//
//go:embed all:frontend
var frontendFiles embed.FS

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		return 1
	}
	defer infrastructure.CloseLogFile()

	frontendFS, err := fs.Sub(frontendFiles, "frontend")
	if err != nil {
		logger.Error("Frontend embedding failed", slog.String("error", err.Error()))
		return 1
	}

	application, err := app.New(cfg, logger, frontendFS)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
