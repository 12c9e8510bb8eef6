package config

import "github.com/aleister1102/seotracker/internal/cache"

// CacheConfig selects the status cache backend
type CacheConfig struct {
	Backend       string `json:"backend,omitempty" yaml:"backend,omitempty" validate:"omitempty,cachebackend"`
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" validate:"required_if=Backend redis"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty" validate:"min=0"`
	SQLitePath    string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" validate:"required_if=Backend sqlite"`
}

// NewDefaultCacheConfig creates default cache configuration
func NewDefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Backend:    DefaultCacheBackend,
		RedisAddr:  DefaultCacheRedisAddr,
		SQLitePath: DefaultCacheSQLitePath,
	}
}

// Options converts the section into cache factory options
func (c CacheConfig) Options() cache.Options {
	return cache.Options{
		Backend: c.Backend,
		Redis: cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		SQLitePath: c.SQLitePath,
	}
}
