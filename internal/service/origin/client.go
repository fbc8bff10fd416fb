// Package origin reads whole upstream data tables from the versioned static
// file origin.
package origin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kapu/efdata-api-go/internal/constants"
	"github.com/kapu/efdata-api-go/internal/domain"
	"github.com/kapu/efdata-api-go/internal/util"
	"github.com/kapu/efdata-api-go/pkg/errors"
)

// Fetcher is what the assemblers need from the origin. Every failure is an
// error matching errors.ErrUpstreamUnavailable, except FetchDictionary with
// an unsupported language which matches errors.ErrUnsupportedLanguage.
type Fetcher interface {
	FetchTable(ctx context.Context, name string) (*domain.Table, error)
	FetchDictionary(ctx context.Context, lang domain.Language) (domain.Dictionary, error)
}

type Config struct {
	BaseURL     string
	DataVersion string
	Timeout     time.Duration
	UserAgent   string
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	dataVersion string
	userAgent   string
	breaker     *util.CircuitBreaker
	group       singleflight.Group
	tracer      trace.Tracer
	logger      *zap.Logger
}

var _ Fetcher = (*Client)(nil)

func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.APIConfig.OriginTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = constants.APIConfig.UserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		dataVersion: strings.Trim(cfg.DataVersion, "/"),
		userAgent:   cfg.UserAgent,
		breaker: util.NewCircuitBreaker("origin",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
		tracer: otel.Tracer("github.com/kapu/efdata-api-go/internal/service/origin"),
		logger: logger,
	}
}

// TableURL is the origin location of a table file.
func (c *Client) TableURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.dataVersion, name)
}

// FetchTable downloads and decodes one table. Concurrent requests for the
// same table share a single download.
func (c *Client) FetchTable(ctx context.Context, name string) (*domain.Table, error) {
	ctx, span := c.tracer.Start(ctx, "origin.FetchTable", trace.WithAttributes(attribute.String("table", name)))
	defer span.End()

	v, err := c.shared(ctx, "table:"+name, func(ctx context.Context) (any, error) {
		return c.fetch(ctx, name)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	return v.(*domain.Table), nil
}

// FetchDictionary returns the text table for lang. Unsupported languages are
// rejected without touching the network.
func (c *Client) FetchDictionary(ctx context.Context, lang domain.Language) (domain.Dictionary, error) {
	if !lang.Supported() {
		return nil, errors.NewUnsupportedLanguageError(lang.String())
	}

	name := lang.DictionaryTable()
	v, err := c.shared(ctx, "dictionary:"+name, func(ctx context.Context) (any, error) {
		table, err := c.FetchTable(ctx, name)
		if err != nil {
			return nil, err
		}
		return domain.NewDictionary(table), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.Dictionary), nil
}

// shared runs fn once per key among concurrent callers. The shared work is
// detached from any single caller's cancellation; a caller whose context ends
// stops waiting without affecting the others.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, errors.NewUpstreamError("fetch abandoned", key, ctx.Err())
	}
}

func (c *Client) fetch(ctx context.Context, name string) (*domain.Table, error) {
	if !c.breaker.Allow() {
		c.logger.Warn("Origin circuit open, skipping fetch", zap.String("table", name))
		return nil, errors.NewUpstreamError("origin circuit open", name, nil)
	}

	reqURL := c.TableURL(name)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.breaker.RecordFailure()
		c.logger.Warn("Origin request invalid", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewUpstreamError("build request failed", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		c.logger.Warn("Origin request failed", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewUpstreamError("origin request failed", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		c.logger.Warn("Origin body read failed", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewUpstreamError("origin body read failed", name, err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		c.logger.Warn("Origin returned non-success status",
			zap.String("url", reqURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, errors.NewUpstreamError(fmt.Sprintf("origin status %d", resp.StatusCode), name, nil)
	}
	c.breaker.RecordSuccess()

	table, err := domain.DecodeTable(body)
	if err != nil {
		c.logger.Warn("Origin table unparsable", zap.String("url", reqURL), zap.Error(err))
		return nil, errors.NewUpstreamError("origin table unparsable", name, err)
	}

	c.logger.Debug("Origin table fetched",
		zap.String("table", name),
		zap.Int("entries", table.Len()),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)
	return table, nil
}
