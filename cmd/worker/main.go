package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"buchladen-backend/internal/config"
	buchrepository "buchladen-backend/internal/domains/buch/repository"
	kunderepository "buchladen-backend/internal/domains/kunde/repository"
	"buchladen-backend/internal/infrastructure/database"
	"buchladen-backend/internal/infrastructure/queue"
	"buchladen-backend/internal/infrastructure/storage"
	"buchladen-backend/pkg/logger"
)

// The worker processes queued file-cleanup tasks and schedules a
// periodic sweep that removes blobs whose owning record was deleted.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Error("failed to load config", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	if cfg.Database.Mock {
		logger.Warn("mock mode has no queue; worker exiting", nil)
		return
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to postgres", err)
		os.Exit(1)
	}
	defer pool.Close()

	store, err := storage.NewMinioStore(ctx, cfg.MinIO)
	if err != nil {
		logger.Error("failed to connect to minio", err)
		os.Exit(1)
	}

	buchRepo := buchrepository.NewPostgresRepository(pool)
	kundeRepo := kunderepository.NewPostgresRepository(pool)

	cleanupHandler := queue.NewFileCleanupHandler(store, map[string]queue.ExistsFunc{
		"buecher": buchRepo.Exists,
		"kunden":  kundeRepo.Exists,
	})

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	scheduler := asynq.NewScheduler(redisOpt, nil)
	for _, resource := range []string{"buecher", "kunden"} {
		task, err := queue.NewFileCleanupTask(resource, "")
		if err != nil {
			logger.Error("failed to build sweep task", err)
			os.Exit(1)
		}
		if _, err := scheduler.Register(cfg.Files.CleanupInterval, task); err != nil {
			logger.Error("failed to schedule sweep task", err)
			os.Exit(1)
		}
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler stopped", err)
		}
	}()

	srv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeFileCleanup, cleanupHandler)

	logger.Info("worker started", map[string]interface{}{"cron": cfg.Files.CleanupInterval})
	if err := srv.Run(mux); err != nil {
		logger.Error("worker stopped with error", err)
		os.Exit(1)
	}
}
