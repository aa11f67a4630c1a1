package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/templatestyles/pkg/config"
	"github.com/dmitrymomot/templatestyles/pkg/logger"
	"github.com/dmitrymomot/templatestyles/pkg/mongo"
	"github.com/dmitrymomot/templatestyles/pkg/pg"
	"github.com/dmitrymomot/templatestyles/pkg/redis"
	"github.com/dmitrymomot/templatestyles/pkg/store"
)

// backend is the selected store plus what the process needs to check and
// release it.
type backend struct {
	store  store.Store
	checks []func(context.Context) error
	close  func()
}

func openBackend(ctx context.Context, app config.App, log *slog.Logger) (*backend, error) {
	name, err := app.Backend()
	if err != nil {
		return nil, err
	}

	b := &backend{close: func() {}}
	switch name {
	case config.BackendMemory:
		b.store = store.NewMemory()

	case config.BackendPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		b.store = store.NewPostgres(pool)
		b.checks = append(b.checks, pg.Healthcheck(pool))
		b.close = pool.Close

	case config.BackendRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.store = store.NewRedis(client, app.StorePrefix)
		b.checks = append(b.checks, redis.Healthcheck(client))
		b.close = func() { _ = client.Close() }

	case config.BackendMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.store = store.NewMongo(client.Database(app.MongoDB), app.MongoColl)
		b.checks = append(b.checks, mongo.Healthcheck(client))
		b.close = func() { _ = client.Disconnect(context.Background()) }

	case config.BackendS3:
		var cfg store.S3Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := store.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.store = store.NewS3(client, cfg.Bucket, app.StorePrefix)
	}

	if app.StoreCacheSize > 0 {
		b.store = store.NewCached(b.store, app.StoreCacheSize)
	}

	log.InfoContext(ctx, "page styles store ready",
		logger.Backend(name),
		slog.Int("cache_size", app.StoreCacheSize),
	)
	return b, nil
}
