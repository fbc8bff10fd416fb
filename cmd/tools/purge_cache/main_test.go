package main

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/app"
	"github.com/kapu/efdata-api-go/internal/config"
	"github.com/kapu/efdata-api-go/internal/service/cache"
)

type purgeStore struct {
	mu         sync.Mutex
	closed     bool
	prefixes   []string
	expiredErr error
}

func (s *purgeStore) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (s *purgeStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (s *purgeStore) Ping(context.Context) error                               { return nil }

func (s *purgeStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *purgeStore) DeleteExpired(context.Context) (int64, error) {
	return 0, s.expiredErr
}

func (s *purgeStore) DeletePrefix(_ context.Context, prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefixes = append(s.prefixes, prefix)
	return 3, nil
}

func (s *purgeStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// nonPurgingStore hides the purge methods of purgeStore.
type nonPurgingStore struct{ s *purgeStore }

func (n nonPurgingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.s.Get(ctx, key)
}
func (n nonPurgingStore) Set(ctx context.Context, key string, v []byte, ttl time.Duration) error {
	return n.s.Set(ctx, key, v, ttl)
}
func (n nonPurgingStore) Ping(ctx context.Context) error { return n.s.Ping(ctx) }
func (n nonPurgingStore) Close() error                   { return n.s.Close() }

func testConfig() *config.Config {
	return &config.Config{
		API:    config.APIConfig{Version: "v1", GameVersion: "cbt2"},
		Origin: config.OriginConfig{DataVersion: "v1"},
		Cache:  config.CacheConfig{Backend: config.CacheBackendRedis},
	}
}

func useStore(t *testing.T, store cache.Store) {
	t.Helper()
	prev := buildContainer
	t.Cleanup(func() { buildContainer = prev })

	buildContainer = func(_ context.Context, cfg *config.Config, logger *zap.Logger) (*app.Container, error) {
		return &app.Container{
			Config: cfg,
			Logger: logger,
			Store:  store,
			Writer: cache.NewWriter(store, cache.WriterConfig{Workers: 1, QueueSize: 1}, logger),
		}, nil
	}
}

func TestPurgeKeys(t *testing.T) {
	cfg := testConfig()

	if got := purgeKeys(cfg, "", "").Prefix(); got != "v1/cbt2+v1/" {
		t.Fatalf("default prefix = %q", got)
	}
	if got := purgeKeys(cfg, " v0 ", "cbt1+v1").Prefix(); got != "v0/cbt1+v1/" {
		t.Fatalf("overridden prefix = %q", got)
	}
}

func TestRunDeletesConfiguredPrefix(t *testing.T) {
	store := &purgeStore{}
	useStore(t, store)

	if err := run(testConfig(), zap.NewNop(), options{timeout: time.Second}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(store.prefixes) != 1 || store.prefixes[0] != "v1/cbt2+v1/" {
		t.Fatalf("unexpected purges %v", store.prefixes)
	}
	if !store.isClosed() {
		t.Fatalf("store must be closed")
	}
}

func TestRunClosesStoreOnFailure(t *testing.T) {
	t.Run("unsupported backend", func(t *testing.T) {
		store := &purgeStore{}
		useStore(t, nonPurgingStore{s: store})

		if err := run(testConfig(), zap.NewNop(), options{timeout: time.Second}); err == nil {
			t.Fatalf("expected error for a store without purge support")
		}
		if !store.isClosed() {
			t.Fatalf("store must be closed on failure")
		}
	})

	t.Run("delete failure", func(t *testing.T) {
		store := &purgeStore{expiredErr: stderrors.New("connection reset")}
		useStore(t, store)

		if err := run(testConfig(), zap.NewNop(), options{timeout: time.Second}); err == nil {
			t.Fatalf("expected delete failure to be reported")
		}
		if !store.isClosed() {
			t.Fatalf("store must be closed on failure")
		}
		if len(store.prefixes) != 0 {
			t.Fatalf("prefix delete must not run after a failure")
		}
	})
}

func TestRunDryRunBuildsNothing(t *testing.T) {
	prev := buildContainer
	t.Cleanup(func() { buildContainer = prev })
	buildContainer = func(context.Context, *config.Config, *zap.Logger) (*app.Container, error) {
		t.Fatalf("dry run must not connect to the store")
		return nil, nil
	}

	if err := run(testConfig(), zap.NewNop(), options{dryRun: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
}
