// Package storage provides the client-local key-value slot used to persist
// small values such as the recent-searches list.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// KeyValue stores string values under string keys.
// Get reports ok=false for a key that was never set.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend string
	// Path is the database file of the bolt and sqlite backends.
	Path string
	// Redis is the client used by the redis backend.
	Redis RedisClient
}

// Open returns the backend named by opts.Backend.
func Open(opts Options) (KeyValue, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendBolt:
		return NewBolt(opts.Path)
	case BackendSQLite:
		return NewSQLite(opts.Path)
	case BackendRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("redis backend: no client configured")
		}
		return NewRedis(opts.Redis), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
