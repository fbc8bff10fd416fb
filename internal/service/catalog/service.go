// Package catalog serves assembled payloads through the cache: a stored
// payload is returned as is, a missing one is assembled, returned and
// written back in the background.
package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kapu/efdata-api-go/internal/constants"
	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/service/cache"
	"github.com/kapu/efdata-api-go/pkg/errors"
)

// Assembler builds payloads from upstream tables.
type Assembler interface {
	List(ctx context.Context, lang domain.Language, kind domain.Kind) (any, error)
	Detail(ctx context.Context, lang domain.Language, kind domain.Kind, slug string) (any, error)
}

// Scheduler accepts cache writes without waiting for them.
type Scheduler interface {
	Enqueue(key string, payload []byte) bool
}

// Result is a serialized payload ready to be written to a client.
type Result struct {
	Body []byte
	Lang domain.Language
	Hit  bool
}

type Service struct {
	store     cache.Store
	writer    Scheduler
	assembler Assembler
	keys      cache.Keys
	tracer    trace.Tracer
	logger    *zap.Logger
}

func NewService(store cache.Store, writer Scheduler, assembler Assembler, keys cache.Keys, logger *zap.Logger) *Service {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Service{
		store:     store,
		writer:    writer,
		assembler: assembler,
		keys:      keys,
		tracer:    otel.Tracer("github.com/kapu/efdata-api-go/internal/service/catalog"),
		logger:    logger,
	}
}

// request is a validated lookup.
type request struct {
	lang domain.Language
	kind domain.Kind
	slug string
}

func (r request) key(k cache.Keys) string {
	if r.slug == "" {
		return k.List(r.lang, r.kind)
	}
	return k.Detail(r.lang, r.kind, r.slug)
}

func parseRequest(langCode, kindName, slug string, detail bool) (request, error) {
	lang, err := domain.ParseLanguage(langCode)
	if err != nil {
		return request{}, err
	}
	kind, ok := domain.ParseKind(kindName)
	if !ok {
		return request{}, errors.NewNotFoundError("unknown entity kind", kindName, slug)
	}
	if detail && slug == "" {
		return request{}, errors.NewNotFoundError("empty slug", kindName, slug)
	}
	return request{lang: lang, kind: kind, slug: slug}, nil
}

// List returns the summary collection of kind in the language langCode.
func (s *Service) List(ctx context.Context, langCode, kindName string) (*Result, error) {
	req, err := parseRequest(langCode, kindName, "", false)
	if err != nil {
		return nil, err
	}
	return s.serve(ctx, req)
}

// Detail returns the payload of one entity.
func (s *Service) Detail(ctx context.Context, langCode, kindName, slug string) (*Result, error) {
	req, err := parseRequest(langCode, kindName, slug, true)
	if err != nil {
		return nil, err
	}
	return s.serve(ctx, req)
}

func (s *Service) serve(ctx context.Context, req request) (*Result, error) {
	key := req.key(s.keys)

	ctx, span := s.tracer.Start(ctx, "catalog.serve", trace.WithAttributes(attribute.String("efdata.cache_key", key)))
	defer span.End()

	if body, ok := s.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool("efdata.cache_hit", true))
		return &Result{Body: body, Lang: req.lang, Hit: true}, nil
	}
	span.SetAttributes(attribute.Bool("efdata.cache_hit", false))

	body, err := s.assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	if !s.writer.Enqueue(key, body) {
		s.logger.Warn("Cache write not scheduled", zap.String("key", key))
	}

	return &Result{Body: body, Lang: req.lang, Hit: false}, nil
}

// lookup reads key from the store. A failing store reads as a miss.
func (s *Service) lookup(ctx context.Context, key string) ([]byte, bool) {
	body, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed, assembling instead", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return body, ok
}

func (s *Service) assemble(ctx context.Context, req request) ([]byte, error) {
	var (
		payload any
		err     error
	)
	if req.slug == "" {
		payload, err = s.assembler.List(ctx, req.lang, req.kind)
	} else {
		payload, err = s.assembler.Detail(ctx, req.lang, req.kind, req.slug)
	}
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("Assembly failed",
				zap.String("lang", req.lang.String()),
				zap.String("kind", req.kind.String()),
				zap.String("slug", req.slug),
				zap.Error(err),
			)
		}
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewAppError("failed to encode payload", errors.CodeAppError, http.StatusInternalServerError, nil).WithCause(err)
	}
	return body, nil
}

// Warm assembles a payload and writes it to the store before returning,
// whether or not it is already cached. An empty slug warms the list. The
// stored body is returned.
func (s *Service) Warm(ctx context.Context, lang domain.Language, kind domain.Kind, slug string) ([]byte, error) {
	req := request{lang: lang, kind: kind, slug: slug}
	body, err := s.assemble(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, req.key(s.keys), body, constants.CacheTTL.Payload); err != nil {
		return nil, err
	}
	return body, nil
}
