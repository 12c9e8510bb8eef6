package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aleister1102/seotracker/internal/common"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_FetchStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithUserAgent("test-agent").Build()
	require.NoError(t, err)

	code, err := client.FetchStatus(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHTTPClient_Redirects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/final", http.StatusMovedPermanently)
			return
		}
		fmt.Fprint(w, "<title>final</title>")
	}))
	defer ts.Close()

	logger := zerolog.Nop()

	noFollow, err := NewHTTPClientBuilder(logger).WithFollowRedirects(false).Build()
	require.NoError(t, err)
	code, err := noFollow.FetchStatus(context.Background(), ts.URL+"/redirect")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMovedPermanently, code)

	follow, err := NewHTTPClientBuilder(logger).WithFollowRedirects(true).Build()
	require.NoError(t, err)
	body, err := follow.FetchPage(context.Background(), ts.URL+"/redirect")
	require.NoError(t, err)
	assert.Equal(t, "<title>final</title>", body)
}

func TestHTTPClient_FetchPage_ErrorStatusStillReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<h1>Oops</h1>"))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	body, err := client.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Oops</h1>", body)
}

func TestHTTPClient_FetchPage_MaxSize(t *testing.T) {
	longContent := "this is some very long content"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(longContent))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithMaxContentSize(10).Build()
	require.NoError(t, err)

	body, err := client.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "this is so", body)
}

func TestHTTPClient_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yes", r.Header.Get("X-Tracker"))
		assert.NotEmpty(t, r.Header.Get("Accept"))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithHeader("X-Tracker", "yes").Build()
	require.NoError(t, err)

	_, err = client.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
}

func TestHTTPClient_TransportErrorKeepsCause(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	_, err = client.FetchStatus(context.Background(), "ftp://example.test/file")
	require.Error(t, err)

	var netErr *common.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "ftp://example.test/file", netErr.URL)

	var urlErr *url.Error
	require.True(t, errors.As(err, &urlErr))
	assert.True(t, strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme"))
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.FetchPage(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
