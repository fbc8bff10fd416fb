package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeAppError            = "APP_ERROR"
	CodeUnsupportedLanguage = "UNSUPPORTED_LANGUAGE"
	CodeNotFound            = "ENTITY_NOT_FOUND"
	CodeUpstream            = "UPSTREAM_UNAVAILABLE"
	CodeCache               = "CACHE_ERROR"
)

// Sentinels matched with errors.Is. Every typed error below reports one of them.
var (
	ErrUnsupportedLanguage = stderrors.New("unsupported language")
	ErrEntityNotFound      = stderrors.New("entity not found")
	ErrUpstreamUnavailable = stderrors.New("upstream unavailable")
	ErrCacheUnavailable    = stderrors.New("cache unavailable")
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error

	kind error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel this error was classified as.
func (e *AppError) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// HTTPStatus is the status the HTTP layer should answer with.
func (e *AppError) HTTPStatus() int {
	return e.StatusCode
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// ValidationError rejects client input. The only input rejected this way is
// an unsupported language, reported as not-found.
type ValidationError struct {
	*AppError
	Field string
	Value any
}

func NewUnsupportedLanguageError(lang string) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    fmt.Sprintf("unsupported language %q", lang),
			Code:       CodeUnsupportedLanguage,
			StatusCode: http.StatusNotFound,
			Context: map[string]any{
				"field": "lang",
				"value": lang,
			},
			kind: ErrUnsupportedLanguage,
		},
		Field: "lang",
		Value: lang,
	}
}

type NotFoundError struct {
	*AppError
	Kind string
	Slug string
}

func NewNotFoundError(message, kind, slug string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeNotFound,
			StatusCode: http.StatusNotFound,
			Context: map[string]any{
				"kind": kind,
				"slug": slug,
			},
			kind: ErrEntityNotFound,
		},
		Kind: kind,
		Slug: slug,
	}
}

type UpstreamError struct {
	*AppError
	Table string
}

func NewUpstreamError(message, table string, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeUpstream,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"table": table,
			},
			Cause: cause,
			kind:  ErrUpstreamUnavailable,
		},
		Table: table,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: http.StatusInternalServerError,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
			kind:  ErrCacheUnavailable,
		},
		Operation: operation,
		Key:       key,
	}
}

// StatusCode maps any error to the status the HTTP surface exposes. Anything
// unclassified is a server error.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var coder interface{ HTTPStatus() int }
	if stderrors.As(err, &coder) && coder.HTTPStatus() != 0 {
		return coder.HTTPStatus()
	}
	if stderrors.Is(err, ErrUnsupportedLanguage) || stderrors.Is(err, ErrEntityNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err should surface as a not-found outcome.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
