package cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend    string
	Redis      RedisOptions
	SQLitePath string
}

// New builds the Store named by opts.Backend. An empty backend selects the
// in-memory store.
func New(ctx context.Context, opts Options, logger zerolog.Logger) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		logger.Debug().Msg("Using in-memory status cache")
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis, logger)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// Close closes store when the backend holds resources.
func Close(store Store) error {
	if c, ok := store.(Closer); ok {
		return c.Close()
	}
	return nil
}
