// Package cache stores short-lived status strings keyed by URL.
package cache

import (
	"context"
	"time"
	"unicode/utf8"
)

// MaxKeyLength is the longest key, in characters, any backend accepts.
// Callers must not hand longer keys to a Store.
const MaxKeyLength = 250

// KeyLength returns the length of key in characters.
func KeyLength(key string) int {
	return utf8.RuneCountInString(key)
}

// KeyTooLong reports whether key exceeds MaxKeyLength.
func KeyTooLong(key string) bool {
	return KeyLength(key) > MaxKeyLength
}

// Store is a TTL key/value cache. Get reports a miss with ok=false and a nil
// error; any error means the backend itself failed.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// Closer is implemented by backends holding connections or files.
type Closer interface {
	Close() error
}
