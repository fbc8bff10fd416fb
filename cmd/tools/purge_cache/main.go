// Command purge_cache removes cache entries of one API and data version, and
// rows past their expiry on stores that keep them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/app"
	"github.com/kapu/efdata-api-go/internal/config"
	"github.com/kapu/efdata-api-go/internal/service/cache"
	"github.com/kapu/efdata-api-go/internal/util"
)

type options struct {
	apiVersion  string
	dataVersion string
	expiredOnly bool
	dryRun      bool
	timeout     time.Duration
}

// buildContainer is replaced in tests.
var buildContainer = app.Build

func main() {
	var opts options
	flag.StringVar(&opts.apiVersion, "api-version", "", "API version whose entries are removed (default: API_VERSION)")
	flag.StringVar(&opts.dataVersion, "data-version", "", "data version whose entries are removed (default: GAME_VERSION+ORIGIN_DATA_VERSION)")
	flag.BoolVar(&opts.expiredOnly, "expired-only", false, "only remove expired entries")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print the prefix without deleting")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, opts); err != nil {
		logger.Error("Cache purge failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// purgeKeys picks the keyspace to purge: the configured one unless a flag
// overrides a version.
func purgeKeys(cfg *config.Config, apiVersion, dataVersion string) cache.Keys {
	keys := cache.Keys{APIVersion: cfg.API.Version, DataVersion: cfg.DataVersion()}
	if v := strings.TrimSpace(apiVersion); v != "" {
		keys.APIVersion = v
	}
	if v := strings.TrimSpace(dataVersion); v != "" {
		keys.DataVersion = v
	}
	return keys
}

// run returns only after the container is closed.
func run(cfg *config.Config, logger *zap.Logger, opts options) error {
	keys := purgeKeys(cfg, opts.apiVersion, opts.dataVersion)
	if opts.dryRun {
		logger.Info("Dry run", zap.String("prefix", keys.Prefix()), zap.Bool("expired_only", opts.expiredOnly))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	container, err := buildContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to assemble services: %w", err)
	}
	defer func() {
		if err := container.Close(context.Background()); err != nil {
			logger.Warn("Failed to close services", zap.Error(err))
		}
	}()

	purger, ok := container.Purger()
	if !ok {
		return fmt.Errorf("cache backend %q does not support purging", cfg.Cache.Backend)
	}

	expired, err := purger.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired entries: %w", err)
	}
	logger.Info("Expired entries removed", zap.Int64("count", expired))

	if opts.expiredOnly {
		return nil
	}

	removed, err := purger.DeletePrefix(ctx, keys.Prefix())
	if err != nil {
		return fmt.Errorf("failed to delete entries under %q: %w", keys.Prefix(), err)
	}
	logger.Info("Cache entries removed", zap.String("prefix", keys.Prefix()), zap.Int64("count", removed))
	return nil
}
