package httpclient

import "time"

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (compatible; seotracker/1.0; +https://github.com/aleister1102/seotracker)"

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Timeout             time.Duration     // Overall request timeout (0 means none)
	DialTimeout         time.Duration     // Connection establishment timeout
	InsecureSkipVerify  bool              // Skip TLS verification
	FollowRedirects     bool              // Whether to follow redirects
	MaxRedirects        int               // Maximum number of redirects to follow
	Proxy               string            // Proxy URL
	CustomHeaders       map[string]string // Headers added to every request
	UserAgent           string            // User-Agent header
	MaxContentSize      int               // Body bytes kept per response (0 for no limit)
	MaxIdleConns        int               // Maximum idle connections
	MaxIdleConnsPerHost int               // Maximum idle connections per host
	IdleConnTimeout     time.Duration     // Idle connection timeout
	TLSHandshakeTimeout time.Duration     // TLS handshake timeout
	EnableHTTP2         bool              // Enable HTTP/2 support
}

// DefaultHTTPClientConfig returns the default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             30 * time.Second,
		DialTimeout:         10 * time.Second,
		InsecureSkipVerify:  false,
		FollowRedirects:     true,
		MaxRedirects:        10,
		UserAgent:           DefaultUserAgent,
		MaxContentSize:      5 * 1024 * 1024,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		EnableHTTP2:         true,
		CustomHeaders: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}
