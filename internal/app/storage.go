package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/config"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	"github.com/Freeeeeet/interview_scheduler/internal/repository/jsonfile"
	"github.com/Freeeeeet/interview_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/interview_scheduler/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OpenStore открывает хранилище, выбранное в конфиге.
// Возвращённая функция закрывает всё, что было открыто
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.New()
		return store, func() { _ = store.Close() }, nil

	case config.StorageFile:
		store, err := jsonfile.Open(cfg.DataDir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close file store", zap.Error(err))
			}
		}, nil

	case config.StoragePostgres:
		pool, err := openPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}

		if cfg.AutoMigrate {
			if err := migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}

		logger.Info("Connected to PostgreSQL")
		return repository.NewPostgresStore(pool), pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	migrator, err := NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}
