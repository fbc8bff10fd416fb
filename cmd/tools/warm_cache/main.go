// Command warm_cache assembles payloads and writes them to the cache, so a
// new data version is served from the cache from its first request.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/app"
	"github.com/kapu/efdata-api-go/internal/config"
	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/util"
)

type options struct {
	langs       []domain.Language
	kinds       []domain.Kind
	details     bool
	concurrency int
	timeout     time.Duration
}

// buildContainer is replaced in tests.
var buildContainer = app.Build

func main() {
	langsFlag := flag.String("langs", "en,cn,jp,kr,tc", "comma separated languages to warm")
	kindsFlag := flag.String("kinds", "", "comma separated entity kinds to warm (default: all)")
	details := flag.Bool("details", false, "also warm every detail payload listed")
	concurrency := flag.Int("concurrency", 4, "detail payloads assembled at once")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	flag.Parse()

	langs, err := parseLanguages(*langsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -langs: %v\n", err)
		os.Exit(2)
	}
	kinds, ok := parseKinds(*kindsFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "Invalid -kinds: %q\n", *kindsFlag)
		os.Exit(2)
	}

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

	err = run(cfg, logger, options{
		langs:       langs,
		kinds:       kinds,
		details:     *details,
		concurrency: *concurrency,
		timeout:     *timeout,
	})
	if err != nil {
		logger.Error("Cache warm failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run returns only after the container is closed. Individual payload
// failures do not stop the run; they are counted and reported at the end.
func run(cfg *config.Config, logger *zap.Logger, opts options) error {
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

	var warmed, failed atomic.Int64
	for _, lang := range opts.langs {
		for _, kind := range opts.kinds {
			body, err := container.Catalog.Warm(ctx, lang, kind, "")
			if err != nil {
				failed.Add(1)
				logger.Error("failed to warm list", zap.String("lang", lang.String()), zap.String("kind", kind.String()), zap.Error(err))
				continue
			}
			warmed.Add(1)

			if !opts.details {
				continue
			}

			p := pool.New().WithMaxGoroutines(max(opts.concurrency, 1))
			for _, entry := range gjson.GetBytes(body, "#.slug").Array() {
				slug := entry.String()
				if slug == "" {
					continue
				}
				p.Go(func() {
					if _, err := container.Catalog.Warm(ctx, lang, kind, slug); err != nil {
						failed.Add(1)
						logger.Warn("failed to warm detail",
							zap.String("lang", lang.String()),
							zap.String("kind", kind.String()),
							zap.String("slug", slug),
							zap.Error(err),
						)
						return
					}
					warmed.Add(1)
				})
			}
			p.Wait()
		}
	}

	logger.Info("Cache warm completed",
		zap.String("prefix", container.Keys.Prefix()),
		zap.Int64("warmed", warmed.Load()),
		zap.Int64("failed", failed.Load()),
	)
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d payloads failed to warm", n)
	}
	return nil
}

func parseLanguages(value string) ([]domain.Language, error) {
	var langs []domain.Language
	for _, code := range strings.Split(value, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		lang, err := domain.ParseLanguage(code)
		if err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

func parseKinds(value string) ([]domain.Kind, bool) {
	if strings.TrimSpace(value) == "" {
		return domain.Kinds, true
	}
	var kinds []domain.Kind
	for _, name := range strings.Split(value, ",") {
		kind, ok := domain.ParseKind(strings.TrimSpace(name))
		if !ok {
			return nil, false
		}
		kinds = append(kinds, kind)
	}
	return kinds, true
}
