// Package db defines the key-value cache the BFF and SDK share computed
// results through. internal/db/redis implements it for Valkey and Redis.
package db

import (
	"context"
	"time"
)

// Store is a connected cache.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity. It doubles as a health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore holds opaque values with an optional TTL.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
