package stream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

type fakeBinding struct {
	uri  string
	subs [][]byte
	ping []byte
}

func (b *fakeBinding) URI(stream.Spec) (string, error)                { return b.uri, nil }
func (b *fakeBinding) SubscribeFrames(stream.Spec) ([][]byte, error)  { return b.subs, nil }
func (b *fakeBinding) PingFrame(stream.Spec) []byte                   { return b.ping }
func (b *fakeBinding) Decode(_ int, data []byte) (stream.Frame, error) { return stream.DecodeJSON(data) }

func TestSessionDeliversPayloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		// subscribe frame first
		_, sub, err := conn.ReadMessage()
		require.NoError(t, err)
		require.JSONEq(t, `{"op":"subscribe"}`, string(sub))

		for i := 0; i < 3; i++ {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"seq":1}`)))
		}
		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	var received atomic.Int32
	binding := &fakeBinding{uri: wsURL(srv), subs: [][]byte{[]byte(`{"op":"subscribe"}`)}}
	sess := stream.NewSession(stream.Spec{
		Venue: market.Bybit,
		Topic: "publicTrade",
	}, binding, func(ctx context.Context, raw any) {
		received.Add(1)
	})

	require.NoError(t, sess.Start(context.Background()))
	require.Eventually(t, func() bool {
		return received.Load() == 3
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, sess.Stop())
	require.Equal(t, stream.StateIdle, sess.State())
	require.NoError(t, sess.Err())
}

func TestSessionStartPrecondition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	sess := stream.NewSession(stream.Spec{Venue: market.OKX, Topic: "tickers"},
		&fakeBinding{uri: wsURL(srv)},
		func(ctx context.Context, raw any) {})

	require.NoError(t, sess.Start(context.Background()))
	err := sess.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "start from state")

	require.NoError(t, sess.Stop())
	require.NoError(t, sess.Stop()) // idempotent
}

func TestSessionLivenessReconnect(t *testing.T) {
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		dials.Add(1)
		// stay silent so the liveness watchdog fires
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	sess := stream.NewSession(stream.Spec{
		Venue:            market.Binance,
		Topic:            "@aggTrade",
		ReconnectDelay:   50 * time.Millisecond,
		NoMessageTimeout: 150 * time.Millisecond,
	}, &fakeBinding{uri: wsURL(srv)}, func(ctx context.Context, raw any) {})

	require.NoError(t, sess.Start(context.Background()))
	require.Eventually(t, func() bool {
		return dials.Load() >= 2
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, sess.Stop())
}

func TestSessionQueueOverflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < 10; i++ {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"n":1}`)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	sess := stream.NewSession(stream.Spec{
		Venue:          market.XT,
		Topic:          "trade",
		Workers:        1,
		QueueBound:     4,
		ReconnectDelay: time.Hour,
	}, &fakeBinding{uri: wsURL(srv)}, func(ctx context.Context, raw any) {
		time.Sleep(50 * time.Millisecond) // consumer cannot keep up
	})

	require.NoError(t, sess.Start(context.Background()))
	require.Eventually(t, func() bool {
		return sess.Err() != nil
	}, 5*time.Second, 10*time.Millisecond)
	require.ErrorIs(t, sess.Err(), market.ErrQueueOverflow)

	require.NoError(t, sess.Stop())
	require.Equal(t, stream.StateIdle, sess.State())
}

func TestSessionSendsPings(t *testing.T) {
	var mu sync.Mutex
	var inbound []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			mu.Lock()
			inbound = append(inbound, string(msg))
			mu.Unlock()
		}
	}))
	defer srv.Close()

	binding := &fakeBinding{
		uri:  wsURL(srv),
		subs: [][]byte{[]byte(`{"op":"subscribe","args":["tickers.BTCUSDT"]}`)},
		ping: []byte(`{"op":"ping"}`),
	}
	sess := stream.NewSession(stream.Spec{
		Venue:        market.Bybit,
		Topic:        "tickers",
		PingInterval: 30 * time.Millisecond,
	}, binding, func(ctx context.Context, raw any) {})

	require.NoError(t, sess.Start(context.Background()))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		pings := 0
		for _, m := range inbound {
			if m == `{"op":"ping"}` {
				pings++
			}
		}
		return len(inbound) > 0 && inbound[0] == `{"op":"subscribe","args":["tickers.BTCUSDT"]}` && pings >= 2
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, sess.Stop())
}
