package config

import (
	"time"

	"github.com/aleister1102/seotracker/internal/statuscheck"
)

// StatusCheckerConfig configures the cached status probe
type StatusCheckerConfig struct {
	ConnectTimeoutSecs int                `json:"connect_timeout_secs,omitempty" yaml:"connect_timeout_secs,omitempty" validate:"min=1"`
	CacheTTLMinutes    int                `json:"cache_ttl_minutes,omitempty" yaml:"cache_ttl_minutes,omitempty" validate:"min=1"`
	KeyPrefix          string             `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
	UserAgent          string             `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Rules              []statuscheck.Rule `json:"rules,omitempty" yaml:"rules,omitempty" validate:"dive"`
}

// NewDefaultStatusCheckerConfig creates default status checker configuration.
// Rules stay empty so the built-in classification table applies.
func NewDefaultStatusCheckerConfig() StatusCheckerConfig {
	return StatusCheckerConfig{
		ConnectTimeoutSecs: DefaultStatusConnectTimeoutSecs,
		CacheTTLMinutes:    DefaultStatusCacheTTLMinutes,
		KeyPrefix:          DefaultStatusKeyPrefix,
	}
}

// CacheTTL returns the cache lifetime as a duration
func (c StatusCheckerConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// PageFetcherConfig configures the page download used for SEO extraction
type PageFetcherConfig struct {
	TimeoutSecs      int    `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"min=1"`
	MaxContentSizeMB int    `json:"max_content_size_mb,omitempty" yaml:"max_content_size_mb,omitempty" validate:"min=1"`
	UserAgent        string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	FollowRedirects  bool   `json:"follow_redirects" yaml:"follow_redirects"`
}

// NewDefaultPageFetcherConfig creates default page fetcher configuration
func NewDefaultPageFetcherConfig() PageFetcherConfig {
	return PageFetcherConfig{
		TimeoutSecs:      DefaultPageTimeoutSecs,
		MaxContentSizeMB: DefaultPageMaxContentSizeMB,
		FollowRedirects:  true,
	}
}
