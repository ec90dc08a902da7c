package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"buchladen-backend/internal/config"
	"buchladen-backend/pkg/container"
	"buchladen-backend/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment may be set externally.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Error("failed to load config", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("starting", map[string]interface{}{
		"app":     cfg.App.Name,
		"env":     cfg.App.Environment,
		"version": cfg.App.Version,
		"mock":    cfg.Database.Mock,
	})

	c, err := container.New(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialize container", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := runServer(c); err != nil {
		logger.Error("server stopped with error", err)
		os.Exit(1)
	}
}
