// Package server exposes the catalog over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/service/catalog"
	"github.com/kapu/efdata-api-go/pkg/errors"
)

// Catalog serves serialized payloads.
type Catalog interface {
	List(ctx context.Context, lang, kind string) (*catalog.Result, error)
	Detail(ctx context.Context, lang, kind, slug string) (*catalog.Result, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

type Handler struct {
	catalog Catalog
	store   Pinger
	logger  *zap.Logger
}

// NewRouter builds the HTTP surface. store may be nil when no cache backend
// is configured.
func NewRouter(c Catalog, store Pinger, logger *zap.Logger) http.Handler {
	h := &Handler{catalog: c, store: store, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /v1/{lang}/{kind}", h.List)
	mux.HandleFunc("GET /v1/{lang}/{kind}/{slug}", h.Detail)
	mux.HandleFunc("/", h.NotFound)

	return otelhttp.NewHandler(WithRequestLogging(logger, mux), "efdata-api")
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "cache": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Health check: cache unreachable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "cache": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "cache": "ok"})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.List(r.Context(), r.PathValue("lang"), r.PathValue("kind"))
	h.respond(w, res, err)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.Detail(r.Context(), r.PathValue("lang"), r.PathValue("kind"), r.PathValue("slug"))
	h.respond(w, res, err)
}

func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound)
}

func (h *Handler) respond(w http.ResponseWriter, res *catalog.Result, err error) {
	if err != nil {
		writeError(w, errors.StatusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Language", res.Lang.Tag().String())
	if res.Hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}

// writeError answers with a generic body; internal details stay in the logs.
func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
