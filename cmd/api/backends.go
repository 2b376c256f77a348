package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/cron"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/redis"
)

// backends holds the connections opened for the configured cart backend.
// Redis is also opened for rate limiting and idempotency whenever it is
// configured, independent of where snapshots live.
type backends struct {
	backend   enums.PersistenceBackend
	persister cart.Persister
	snapshots *cart.SQLPersister
	redis     *redis.Client
	db        *db.Client
	readiness map[string]controllers.Pinger
}

func openBackends(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backends, error) {
	backend, err := cfg.Cart.PersistenceBackend()
	if err != nil {
		return nil, err
	}
	deps := &backends{backend: backend, readiness: map[string]controllers.Pinger{}}

	if backend == enums.PersistenceRedis || cfg.Redis.Enabled() {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		deps.redis = client
		deps.readiness["redis"] = client
	}

	switch {
	case backend == enums.PersistenceMemory:
		memory := cart.NewMemoryPersister()
		deps.persister = memory
		deps.readiness["cart_store"] = memory

	case backend == enums.PersistenceRedis:
		persister, err := cart.NewRedisPersister(deps.redis, cfg.Cart.SnapshotTTL)
		if err != nil {
			deps.Close(ctx, logg)
			return nil, err
		}
		deps.persister = persister

	case backend.IsSQL():
		client, err := db.New(ctx, cfg.DB, backend, logg)
		if err != nil {
			deps.Close(ctx, logg)
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		deps.db = client
		deps.readiness["database"] = client

		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			deps.Close(ctx, logg)
			return nil, fmt.Errorf("dev migrations: %w", err)
		}

		persister, err := cart.NewSQLPersister(client, cfg.Cart.SnapshotTTL)
		if err != nil {
			deps.Close(ctx, logg)
			return nil, err
		}
		deps.persister = persister
		deps.snapshots = persister

	default:
		return nil, fmt.Errorf("unsupported cart backend %q", backend)
	}

	return deps, nil
}

func (b *backends) Close(ctx context.Context, logg *logger.Logger) {
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}
}

// startSnapshotSweeper runs the expired snapshot purge in the background for
// SQL backends. Redis expires snapshots on its own.
func startSnapshotSweeper(ctx context.Context, cfg *config.Config, logg *logger.Logger, deps *backends, jobMetrics *metrics.JobMetrics) error {
	if deps.snapshots == nil || cfg.Cart.SweepInterval <= 0 {
		return nil
	}

	job, err := cron.NewSnapshotRetentionJob(cron.SnapshotRetentionJobParams{
		Logger:  logg,
		Purger:  deps.snapshots,
		Metrics: jobMetrics,
	})
	if err != nil {
		return err
	}

	var lock cron.Lock
	if deps.redis != nil {
		redisLock, err := cron.NewRedisLock(deps.redis, deps.redis.LockKey(job.Name()), 2*cfg.Cart.SweepInterval)
		if err != nil {
			return err
		}
		lock = redisLock
	}

	scheduler, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Cart.SweepInterval,
	})
	if err != nil {
		return err
	}

	go func() {
		_ = scheduler.Run(ctx)
	}()
	return nil
}
