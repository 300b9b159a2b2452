// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/internal/platform/config"
	"github.com/taibuivan/autoluxe/internal/platform/migration"
	"github.com/taibuivan/autoluxe/internal/platform/postgres"
	redisclient "github.com/taibuivan/autoluxe/internal/platform/redis"
)

/*
Open builds the configured backend wrapped in [Resilient].

Description: The postgres driver migrates the schema before serving. The
returned close function releases the backend connections.

Parameters:
  - ctx: context.Context (Bounds the initial connection)
  - cfg: *config.Config
  - logger: *zap.Logger

Returns:
  - *Resilient: The visitor state store
  - func(): Releases backend resources
  - error: Connection or migration failures
*/
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Resilient, func(), error) {
	opts := []Option{WithFallbackTTL(cfg.VisitorTTL), WithRetryAfter(cfg.StorageRetryAfter)}

	switch cfg.StoreDriver {
	case config.DriverRedis:
		client, err := redisclient.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := client.Close(); err != nil {
				logger.Error("redis_close_failed", zap.Error(err))
			}
		}
		return NewResilient(NewRedisStore(client, cfg.VisitorTTL), logger, opts...), closer, nil

	case config.DriverPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewResilient(NewPostgresStore(pool, cfg.VisitorTTL), logger, opts...), pool.Close, nil

	case config.DriverMemory, "":
		return NewResilient(NewMemoryStore(WithTTL(cfg.VisitorTTL)), logger, opts...), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", cfg.StoreDriver)
	}
}
