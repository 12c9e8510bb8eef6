// Package statuscheck resolves the HTTP status of a URL through a TTL cache.
package statuscheck

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/seotracker/internal/cache"
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
)

const (
	// DefaultKeyPrefix prefixes every cache key.
	DefaultKeyPrefix = "status-"
	// DefaultTTL is how long a successful status stays cached.
	DefaultTTL = 6 * time.Hour
)

// Fetcher performs a single status request. It must not follow redirects.
type Fetcher interface {
	FetchStatus(ctx context.Context, url string) (int, error)
}

// Checker answers status lookups from cache, falling back to the network.
// Only successful lookups are cached; failures are retried on the next call.
type Checker struct {
	fetcher    Fetcher
	store      cache.Store
	classifier *Classifier
	keyPrefix  string
	ttl        time.Duration
	logger     zerolog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Checker) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(c *Checker) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}

// WithClassifier replaces the default classification table.
func WithClassifier(classifier *Classifier) Option {
	return func(c *Checker) {
		if classifier != nil {
			c.classifier = classifier
		}
	}
}

// NewChecker creates a new Checker
func NewChecker(fetcher Fetcher, store cache.Store, logger zerolog.Logger, opts ...Option) *Checker {
	c := &Checker{
		fetcher:    fetcher,
		store:      store,
		classifier: NewClassifier(nil),
		keyPrefix:  DefaultKeyPrefix,
		ttl:        DefaultTTL,
		logger:     logger.With().Str("component", "StatusChecker").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckStatus returns the status of rawURL. It never returns an error:
// every failure is encoded in the result.
func (c *Checker) CheckStatus(ctx context.Context, rawURL string) models.StatusResult {
	target := strings.TrimSpace(rawURL)
	if target == "" {
		return models.StatusFailure(models.StatusEmptyURL, "")
	}

	key := c.keyPrefix + target
	if cache.KeyTooLong(key) {
		c.logger.Debug().Int("key_length", cache.KeyLength(key)).Str("url", target).Msg("URL too long for caching")
		return models.StatusFailure(models.StatusKeyTooLong, "")
	}

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Error().Err(err).Str("url", target).Msg("Status cache read failed")
		return models.StatusFailure(models.StatusCacheUnavailable, err.Error())
	}
	if ok {
		c.logger.Debug().Str("url", target).Str("status", cached).Msg("Status cache hit")
		return models.StatusFromCache(cached)
	}

	code, err := c.fetcher.FetchStatus(ctx, target)
	if err != nil {
		result := c.classifier.Classify(err)
		c.logger.Warn().Err(err).Str("url", target).Str("kind", string(result.Kind)).Msg("Status check failed")
		return result
	}

	if err := c.store.Put(ctx, key, strconv.Itoa(code), c.ttl); err != nil {
		c.logger.Error().Err(err).Str("url", target).Msg("Status cache write failed")
		return models.StatusFailure(models.StatusCacheUnavailable, err.Error())
	}

	c.logger.Debug().Str("url", target).Int("status_code", code).Msg("Status fetched")
	return models.StatusCode(code)
}
