package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/config"
	"github.com/kapu/efdata-api-go/internal/constants"
	"github.com/kapu/efdata-api-go/internal/server"
	"github.com/kapu/efdata-api-go/internal/service/assembler"
	"github.com/kapu/efdata-api-go/internal/service/cache"
	"github.com/kapu/efdata-api-go/internal/service/catalog"
	"github.com/kapu/efdata-api-go/internal/service/origin"
)

// Container bundles the assembled services shared by the server and the
// maintenance tools.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Store     cache.Store
	Writer    *cache.Writer
	Origin    *origin.Client
	Assembler *assembler.Assembler
	Catalog   *catalog.Service
	Keys      cache.Keys

	cacheEnabled bool
}

// Build wires every service from cfg. Connections opened before a failure
// are closed again.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}
	closers = append(closers, func() {
		_ = store.Close()
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writer := cache.NewWriter(store, cache.WriterConfig{
		Workers:      cfg.Cache.WriteWorkers,
		QueueSize:    cfg.Cache.WriteQueue,
		TTL:          constants.CacheTTL.Payload,
		WriteTimeout: constants.CacheWriterConfig.WriteTimeout,
	}, logger)

	originClient := origin.NewClient(origin.Config{
		BaseURL:     cfg.Origin.BaseURL,
		DataVersion: cfg.Origin.DataVersion,
		Timeout:     cfg.Origin.Timeout(),
		UserAgent:   constants.APIConfig.UserAgent,
	}, nil, logger)

	keys := cache.Keys{APIVersion: cfg.API.Version, DataVersion: cfg.DataVersion()}
	asm := assembler.New(originClient, cfg.API.GameVersion, logger)
	catalogSvc := catalog.NewService(store, writer, asm, keys, logger)

	logger.Info("Services assembled",
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("origin", cfg.Origin.BaseURL),
		zap.String("origin_data_version", cfg.Origin.DataVersion),
		zap.String("cache_prefix", keys.Prefix()),
	)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		Writer:       writer,
		Origin:       originClient,
		Assembler:    asm,
		Catalog:      catalogSvc,
		Keys:         keys,
		cacheEnabled: cfg.Cache.Backend != config.CacheBackendNone,
	}, nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		return cache.NewRedisStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
	case config.CacheBackendPostgres:
		return cache.NewPostgresStore(cache.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
	case config.CacheBackendNone:
		logger.Warn("Cache disabled, every request assembles from the origin")
		return cache.NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Handler is the HTTP surface backed by this container.
func (c *Container) Handler() http.Handler {
	var health server.Pinger
	if c.cacheEnabled {
		health = c.Store
	}
	return server.NewRouter(c.Catalog, health, c.Logger)
}

// Purger returns the bulk-removal side of the store, when it has one.
func (c *Container) Purger() (cache.Purger, bool) {
	p, ok := c.Store.(cache.Purger)
	return p, ok
}

// Close drains pending cache writes, then closes the store.
func (c *Container) Close(ctx context.Context) error {
	drainErr := c.Writer.Close(ctx)
	if drainErr != nil {
		c.Logger.Warn("Cache writes left undrained", zap.Error(drainErr))
	}
	if err := c.Store.Close(); err != nil {
		return fmt.Errorf("close cache store: %w", err)
	}
	return drainErr
}
