package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/config"
	"github.com/kapu/efdata-api-go/internal/service/cache"
)

func testConfig(originURL string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Addr: ":0"},
		Origin:  config.OriginConfig{BaseURL: originURL, DataVersion: "v1", TimeoutSeconds: 5},
		API:     config.APIConfig{Version: "v1", GameVersion: "cbt2"},
		Cache:   config.CacheConfig{Backend: config.CacheBackendNone, WriteWorkers: 1, WriteQueue: 8},
		Logging: config.LoggingConfig{Level: "info"},
	}
}

func TestBuildRejectsMissingDependencies(t *testing.T) {
	if _, err := Build(context.Background(), nil, zap.NewNop()); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if _, err := Build(context.Background(), testConfig("http://origin"), nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
}

func TestBuildWithoutCacheServesFromOrigin(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/I18nTextTable_EN.json":
			_, _ = w.Write([]byte(`{"t_a": "Archive A"}`))
		case "/v1/RichContentTable.json":
			_, _ = w.Write([]byte(`{"rc_a": {"title": {"id": "t_a", "text": "x"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer origin.Close()

	c, err := Build(context.Background(), testConfig(origin.URL), zap.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() { _ = c.Close(context.Background()) }()

	if _, ok := c.Store.(cache.NopStore); !ok {
		t.Fatalf("expected the no-op store, got %T", c.Store)
	}
	if _, ok := c.Purger(); ok {
		t.Fatalf("the no-op store cannot purge")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/en/lore", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != `[{"slug":"rc_a","id":"rc_a","name":"Archive A","lang":"en","kind":"lore","version":"cbt2"}]` {
		t.Fatalf("unexpected body %s", got)
	}
	if got := c.Keys.Prefix(); got != "v1/cbt2+v1/" {
		t.Fatalf("cache keys must carry both data versions, got prefix %q", got)
	}

	health := httptest.NewRecorder()
	c.Handler().ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("health without cache should be ok, got %d", health.Code)
	}
}
