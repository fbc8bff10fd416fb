package cache

import (
	"context"
	"time"
)

// Store is a byte-valued key/value store with per-entry TTL. A missing key is
// (nil, false, nil), never an error. Expiry is enforced by the store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Purger is implemented by stores that support bulk removal.
type Purger interface {
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// NopStore never holds anything. Used when caching is disabled.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopStore) Ping(context.Context) error                               { return nil }
func (NopStore) Close() error                                             { return nil }
