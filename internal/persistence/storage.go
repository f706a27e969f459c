package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/config"
	"github.com/devxankit/crm-saas/internal/repository"
)

// Storage is an opened key-value backend plus the handle that releases it.
type Storage struct {
	Repo  repository.KeyValueRepository
	close func()
}

// Close releases connections held by the backend.
func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStorage builds the key-value backend selected by cfg.Storage.Driver.
func OpenStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		return &Storage{Repo: repository.NewMemoryKVRepository()}, nil
	case config.StorageDriverFile, "":
		repo, err := repository.NewFileKVRepository(cfg.Storage.FilePath)
		if err != nil {
			return nil, err
		}
		logger.Debug("using file storage", zap.String("path", cfg.Storage.FilePath))
		return &Storage{Repo: repo}, nil
	case config.StorageDriverRedis:
		rdb, err := NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return &Storage{
			Repo:  repository.NewRedisKVRepository(rdb.Client, cfg.Redis.KeyPrefix),
			close: rdb.Close,
		}, nil
	case config.StorageDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Storage{
			Repo:  repository.NewPostgresKVRepository(pg.PoolHandle()),
			close: pg.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
