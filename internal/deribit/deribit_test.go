package deribit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/httpx"
)

func newTestServer(t *testing.T, authCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/public/auth" {
			authCalls.Add(1)
			require.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
			json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{"access_token": "tok-1", "expires_in": 900},
			})
			return
		}

		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "2.0", req["jsonrpc"])

		switch req["method"] {
		case "public/ticker":
			json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{"instrument_name": "BTC-PERPETUAL", "last_price": 50000.5},
			})
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": 11050, "message": "bad_request"},
			})
		}
	}))
}

func TestTickerWithTokenReuse(t *testing.T) {
	var authCalls atomic.Int32
	srv := newTestServer(t, &authCalls)
	defer srv.Close()

	c := New(httpx.Options{}, "id", "secret")
	c.url = srv.URL

	for i := 0; i < 3; i++ {
		result, err := c.Ticker(context.Background(), "BTC-PERPETUAL")
		require.NoError(t, err)
		m := result.(map[string]any)
		require.Equal(t, 50000.5, m["last_price"])
	}
	require.Equal(t, int32(1), authCalls.Load()) // token reused until expiry
}

func TestRPCErrorSurfaced(t *testing.T) {
	var authCalls atomic.Int32
	srv := newTestServer(t, &authCalls)
	defer srv.Close()

	c := New(httpx.Options{}, "id", "secret")
	c.url = srv.URL

	_, err := c.Instrument(context.Background(), "NOPE")
	require.ErrorContains(t, err, "bad_request")
}
