package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/app"
	"github.com/kapu/efdata-api-go/internal/config"
	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/cache"
	"github.com/kapu/efdata-api-go/internal/service/catalog"
	"github.com/kapu/efdata-api-go/pkg/errors"
)

func TestParseLanguages(t *testing.T) {
	got, err := parseLanguages(" en, kr,,tc ")
	if err != nil {
		t.Fatalf("parseLanguages: %v", err)
	}
	want := []domain.Language{domain.LanguageEnglish, domain.LanguageKorean, domain.LanguageTraditionalChinese}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseLanguages("en,xx"); err == nil {
		t.Fatalf("expected an error for an unsupported language")
	}
}

func TestParseKinds(t *testing.T) {
	all, ok := parseKinds("")
	if !ok || len(all) != len(domain.Kinds) {
		t.Fatalf("empty flag must select every kind, got %v", all)
	}

	got, ok := parseKinds("lore, items")
	if !ok {
		t.Fatalf("parseKinds rejected valid kinds")
	}
	if diff := cmp.Diff([]domain.Kind{domain.KindLore, domain.KindItems}, got); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	if _, ok := parseKinds("lore,vehicles"); ok {
		t.Fatalf("expected unknown kind to be rejected")
	}
}

type warmStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	closed  bool
}

func (s *warmStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (s *warmStore) Ping(context.Context) error                       { return nil }

func (s *warmStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *warmStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *warmStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// loreAssembler lists two entries; the detail of "rc_b" is gone upstream.
type loreAssembler struct{}

func (loreAssembler) List(context.Context, domain.Language, domain.Kind) (any, error) {
	return []map[string]string{{"slug": "rc_a"}, {"slug": "rc_b"}}, nil
}

func (loreAssembler) Detail(_ context.Context, _ domain.Language, kind domain.Kind, slug string) (any, error) {
	if slug == "rc_b" {
		return nil, errors.NewNotFoundError("gone", kind.String(), slug)
	}
	return map[string]string{"slug": slug}, nil
}

func useCatalog(t *testing.T, store *warmStore) {
	t.Helper()
	prev := buildContainer
	t.Cleanup(func() { buildContainer = prev })

	buildContainer = func(_ context.Context, cfg *config.Config, logger *zap.Logger) (*app.Container, error) {
		keys := cache.Keys{APIVersion: "v1", DataVersion: "cbt2+v1"}
		writer := cache.NewWriter(store, cache.WriterConfig{Workers: 1, QueueSize: 1}, logger)
		return &app.Container{
			Config:  cfg,
			Logger:  logger,
			Store:   store,
			Writer:  writer,
			Catalog: catalog.NewService(store, writer, loreAssembler{}, keys, logger),
			Keys:    keys,
		}, nil
	}
}

func TestRunWarmsListsAndDetails(t *testing.T) {
	store := &warmStore{entries: map[string][]byte{}}
	useCatalog(t, store)

	err := run(&config.Config{}, zap.NewNop(), options{
		langs:       []domain.Language{domain.LanguageEnglish},
		kinds:       []domain.Kind{domain.KindLore},
		details:     true,
		concurrency: 2,
		timeout:     time.Second,
	})
	if err == nil {
		t.Fatalf("expected the failed detail to be reported")
	}

	want := []string{"v1/cbt2+v1/en/lore", "v1/cbt2+v1/en/lore/rc_a"}
	if diff := cmp.Diff(want, store.keys()); diff != "" {
		t.Fatalf("warmed keys mismatch (-want +got):\n%s", diff)
	}
	if !store.closed {
		t.Fatalf("store must be closed even when payloads fail")
	}
}

func TestRunClosesStoreWhenListsOnly(t *testing.T) {
	store := &warmStore{entries: map[string][]byte{}}
	useCatalog(t, store)

	err := run(&config.Config{}, zap.NewNop(), options{
		langs:   []domain.Language{domain.LanguageEnglish, domain.LanguageKorean},
		kinds:   []domain.Kind{domain.KindLore},
		timeout: time.Second,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := len(store.keys()); got != 2 {
		t.Fatalf("expected 2 list entries, got %d", got)
	}
	if !store.closed {
		t.Fatalf("store must be closed")
	}
}

func TestRunReportsBuildFailure(t *testing.T) {
	prev := buildContainer
	t.Cleanup(func() { buildContainer = prev })
	buildContainer = func(context.Context, *config.Config, *zap.Logger) (*app.Container, error) {
		return nil, fmt.Errorf("redis unreachable")
	}

	if err := run(&config.Config{}, zap.NewNop(), options{timeout: time.Second}); err == nil {
		t.Fatalf("expected build failure to be returned")
	}
}
