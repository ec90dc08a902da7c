package container

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"buchladen-backend/internal/auth"
	"buchladen-backend/internal/config"
	buchhandler "buchladen-backend/internal/domains/buch/handler"
	buchrepository "buchladen-backend/internal/domains/buch/repository"
	buchservice "buchladen-backend/internal/domains/buch/service"
	kundehandler "buchladen-backend/internal/domains/kunde/handler"
	kunderepository "buchladen-backend/internal/domains/kunde/repository"
	kundeservice "buchladen-backend/internal/domains/kunde/service"
	infracache "buchladen-backend/internal/infrastructure/cache"
	"buchladen-backend/internal/infrastructure/database"
	"buchladen-backend/internal/infrastructure/queue"
	"buchladen-backend/internal/infrastructure/storage"
	"buchladen-backend/pkg/jwt"
	"buchladen-backend/pkg/logger"
)

// Container wires configuration, infrastructure, services and handlers
// once at startup. With Database.Mock set, the in-memory services are
// used and no external infrastructure is touched.
type Container struct {
	Config *config.Config

	Pool        *pgxpool.Pool
	Cache       *infracache.RedisCache
	Store       storage.BlobStore
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager

	BuchService      buchservice.Service
	BuchFileService  buchservice.FileService
	KundeService     kundeservice.Service
	KundeFileService kundeservice.FileService

	AuthHandler      *auth.Handler
	BuchHandler      *buchhandler.Handler
	BuchFileHandler  *buchhandler.FileHandler
	KundeHandler     *kundehandler.Handler
	KundeFileHandler *kundehandler.FileHandler
}

func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiryMinute)
	c.AuthHandler = auth.NewHandler(c.JWTManager)

	if cfg.Database.Mock {
		logger.Warn("running with in-memory mock services", nil)
		c.BuchService, c.BuchFileService = buchservice.NewMockService()
		c.KundeService, c.KundeFileService = kundeservice.NewMockService()
		c.BuchHandler = buchhandler.NewHandler(c.BuchService, nil)
		c.BuchFileHandler = buchhandler.NewFileHandler(c.BuchFileService)
		c.KundeHandler = kundehandler.NewHandler(c.KundeService, nil)
		c.KundeFileHandler = kundehandler.NewFileHandler(c.KundeFileService)
		return c, nil
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c.Pool = pool

	c.Cache = infracache.NewRedisCache(cfg.Redis)
	if err := c.Cache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store, err := storage.NewMinioStore(ctx, cfg.MinIO)
	if err != nil {
		return nil, err
	}
	c.Store = store

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	buchRepo := buchrepository.NewPostgresRepository(pool)
	c.BuchService = buchservice.NewService(buchRepo, c.Cache)
	c.BuchFileService = buchservice.NewFileService(buchRepo, store)

	kundeRepo := kunderepository.NewPostgresRepository(pool)
	c.KundeService = kundeservice.NewService(kundeRepo, c.Cache)
	c.KundeFileService = kundeservice.NewFileService(kundeRepo, store)

	c.BuchHandler = buchhandler.NewHandler(c.BuchService, c.cleanupFunc("buecher"))
	c.BuchFileHandler = buchhandler.NewFileHandler(c.BuchFileService)
	c.KundeHandler = kundehandler.NewHandler(c.KundeService, c.cleanupFunc("kunden"))
	c.KundeFileHandler = kundehandler.NewFileHandler(c.KundeFileService)

	return c, nil
}

// cleanupFunc returns the blob-cleanup policy for a deleted record:
// synchronous purge when cascade delete is configured, otherwise a
// queued cleanup task.
func (c *Container) cleanupFunc(resource string) func(ctx *gin.Context, id string) {
	if c.Config.Files.CascadeDelete {
		return func(ctx *gin.Context, id string) {
			removed, err := c.Store.RemoveByPrefix(ctx.Request.Context(), resource+"/"+id+"/")
			if err != nil {
				logger.Error("cascade file delete failed", err)
				return
			}
			if removed > 0 {
				logger.Info("cascade deleted files", map[string]interface{}{
					"resource": resource, "id": id, "removed": removed,
				})
			}
		}
	}

	return func(ctx *gin.Context, id string) {
		task, err := queue.NewFileCleanupTask(resource, id)
		if err != nil {
			logger.Error("failed to build cleanup task", err)
			return
		}
		if _, err := c.AsynqClient.EnqueueContext(ctx.Request.Context(), task); err != nil {
			logger.Error("failed to enqueue cleanup task", err)
		}
	}
}

// HealthCheck pings the external dependencies.
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.Config.Database.Mock {
		return nil
	}
	if err := database.HealthCheck(ctx, c.Pool); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := c.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Close releases all connections.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		_ = c.AsynqClient.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
