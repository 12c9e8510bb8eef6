package cache

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/seotracker/internal/common"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore keeps entries in Redis with native key expiry, so several
// tracker processes can share one cache.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// RedisOptions holds the connection settings of a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and pings it once.
func NewRedisStore(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, common.WrapErrorf(err, "failed to connect to redis at %s", opts.Addr)
	}

	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Redis cache connected")
	return &RedisStore{
		client: client,
		logger: logger.With().Str("component", "RedisCache").Logger(),
	}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
