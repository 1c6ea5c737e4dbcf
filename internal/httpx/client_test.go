package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
)

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		require.False(t, r.URL.Query().Has("limit"))
		w.Write([]byte(`{"price":"50000"}`))
	}))
	defer srv.Close()

	c := New(Options{})
	defer c.Close()

	raw, err := c.Get(context.Background(), srv.URL, map[string]string{
		"symbol": "BTCUSDT",
		"limit":  "", // elided
	})
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "50000", body["price"])
}

func TestAPIErrorNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c := New(Options{MaxRetries: 3})
	defer c.Close()

	_, err := c.Get(context.Background(), srv.URL, nil)
	var apiErr *market.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 500, apiErr.Status)
	require.Equal(t, "HTTP 500: boom", apiErr.Error())
	require.Equal(t, int32(1), calls.Load())
}

func TestRateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"code":-1003}`))
	}))
	defer srv.Close()

	c := New(Options{})
	defer c.Close()

	_, err := c.Get(context.Background(), srv.URL, nil)
	var apiErr *market.APIError
	require.True(t, errors.As(err, &apiErr))
	require.True(t, apiErr.IsRateLimit())
}

func TestTimeoutRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Options{
		Timeout:    20 * time.Millisecond,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})
	defer c.Close()

	_, err := c.Get(context.Background(), srv.URL, nil)
	require.ErrorIs(t, err, market.ErrTimeout)
	require.Equal(t, int32(3), calls.Load())
}

func TestOnResponseHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MBX-USED-WEIGHT-1M", "42")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Options{})
	defer c.Close()

	var weight string
	c.OnResponse = func(h http.Header) {
		weight = h.Get("X-MBX-USED-WEIGHT-1M")
	}

	_, err := c.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	require.Equal(t, "42", weight)
}

func TestPostBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "spotMeta", body["type"])
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Options{})
	defer c.Close()

	_, err := c.Request(context.Background(), http.MethodPost, srv.URL, nil,
		map[string]string{"type": "spotMeta"},
		map[string]string{"X-Api-Key": "secret"})
	require.NoError(t, err)
}
