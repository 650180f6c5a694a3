package minfin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankrates/deploy/config"
	"bankrates/internal/entities"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{Scraper: config.Scraper{
		BaseURL:    baseURL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		Timeout:    2 * time.Second,
	}}

	return NewClient(cfg)
}

func TestClient_FetchPage_FirstAttemptSucceeds(t *testing.T) {
	var attempts atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)

		assert.Equal(t, "/currency/banks/kiev/usd/", r.URL.Path)
		assert.Equal(t, acceptLanguage, r.Header.Get("Accept-Language"))
		assert.Contains(t, userAgents, r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte("<html>rates</html>"))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL + "/currency/banks/")

	body, err := client.FetchPage(context.Background(), "kiev", "usd")
	require.NoError(t, err)

	assert.Equal(t, "<html>rates</html>", body)
	assert.Equal(t, int32(1), attempts.Load(), "no retries after success")
}

func TestClient_FetchPage_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL + "/currency/banks/")

	_, err := client.FetchPage(context.Background(), "kiev", "usd")
	require.Error(t, err)

	assert.ErrorIs(t, err, entities.ErrPageUnavailable)
	assert.Equal(t, int32(3), attempts.Load(), "exactly max_retries attempts")
}

func TestClient_FetchPage_RecoversAfterFailure(t *testing.T) {
	var attempts atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL + "/currency/banks/")

	body, err := client.FetchPage(context.Background(), "kiev", "usd")
	require.NoError(t, err)

	assert.Equal(t, "ok", body)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_FetchPage_CancelledDuringRetryDelay(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cfg := &config.Config{Scraper: config.Scraper{
		BaseURL:    ts.URL + "/currency/banks/",
		MaxRetries: 3,
		RetryDelay: time.Minute,
		Timeout:    2 * time.Second,
	}}
	client := NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchPage(ctx, "kiev", "usd")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
