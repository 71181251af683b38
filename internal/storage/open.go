package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Open builds the backend selected by cfg.StorageDriver. The returned close
// function releases any connections and is never nil.
func Open(ctx context.Context, cfg *models.Config, logger logrus.FieldLogger) (KVStore, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case models.StorageDriverMemory:
		return NewMemoryStore(), noop, nil
	case models.StorageDriverFile, "":
		store, err := NewFileStore(cfg.StorageDir, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case models.StorageDriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("unable to create connection pool: %w", err)
		}
		store, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil
	case models.StorageDriverS3:
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, noop, fmt.Errorf("unable to load SDK config: %w", err)
		}
		return NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
