package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/aleister1102/seotracker/internal/common"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// statusDrainLimit bounds how much of a body is read before a status-only
// connection is closed.
const statusDrainLimit = 64 * 1024

// HTTPClient wraps net/http.Client with the tracker's request defaults.
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration using net/http
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout: config.DialTimeout,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: config.InsecureSkipVerify,
		},
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		}
	}

	if config.Proxy != "" {
		proxyURL, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, common.WrapError(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Info().Str("proxy", config.Proxy).Msg("HTTP client configured with proxy")
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	if !config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if config.MaxRedirects > 0 {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
			}
			return nil
		}
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Dur("dial_timeout", config.DialTimeout).
		Bool("follow_redirects", config.FollowRedirects).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Config returns a copy of the client configuration.
func (c *HTTPClient) Config() HTTPClientConfig {
	return c.config
}

func (c *HTTPClient) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, common.NewNetworkError(rawURL, "failed to create request", err)
	}

	for key, value := range c.config.CustomHeaders {
		req.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, common.NewNetworkError(rawURL, "request failed", err)
	}
	return resp, nil
}

// FetchStatus issues a GET and returns the response status code. HTTP error
// statuses are results, not errors; only transport failures return an error.
func (c *HTTPClient) FetchStatus(ctx context.Context, rawURL string) (int, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, statusDrainLimit))

	c.logger.Debug().Str("url", rawURL).Int("status_code", resp.StatusCode).Msg("Fetched status")
	return resp.StatusCode, nil
}

// FetchPage returns the response body as text whatever the status code.
// Bodies larger than MaxContentSize are truncated.
func (c *HTTPClient) FetchPage(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if c.config.MaxContentSize > 0 {
		reader = io.LimitReader(resp.Body, int64(c.config.MaxContentSize)+1)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, reader); err != nil {
		return "", common.NewNetworkError(rawURL, "failed to read response body", err)
	}

	body := sb.String()
	if c.config.MaxContentSize > 0 && len(body) > c.config.MaxContentSize {
		c.logger.Warn().
			Str("url", rawURL).
			Int("max_content_size", c.config.MaxContentSize).
			Msg("Content size exceeds limit, truncating")
		body = body[:c.config.MaxContentSize]
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Debug().Str("url", rawURL).Int("status_code", resp.StatusCode).Msg("Page returned error status, using body anyway")
	}

	return body, nil
}
