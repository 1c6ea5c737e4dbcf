package bitunix

import (
	"encoding/json"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestTradesMessage(t *testing.T) {
	raw := decode(t, `{
		"symbol":"BTCUSDT",
		"ch":"trade",
		"data":[
			{"t":"2023-11-14T22:13:20.123Z","p":"50000.5","v":"0.25","s":"buy"},
			{"t":"2023-11-14T22:13:21Z","p":"50001","v":"0.1","s":"sell"}
		]
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{
		{Time: 1700000000123, Symbol: "BTCUSDT", Side: market.Buy, Price: 50000.5, Volume: 0.25},
		{Time: 1700000001000, Symbol: "BTCUSDT", Side: market.Sell, Price: 50001, Volume: 0.1},
	}, out)
}

func TestBadTimeRejected(t *testing.T) {
	raw := decode(t, `{"symbol":"BTCUSDT","ch":"trade","data":[{"t":"yesterday","p":"1","v":"1","s":"buy"}]}`)
	_, err := Adapter{}.AggTradesMessage(raw)
	var aerr *market.AdaptError
	require.ErrorAs(t, err, &aerr)
}

func TestFuturesTicker24hDerivedChange(t *testing.T) {
	raw := decode(t, `{"data":[
		{"symbol":"BTCUSDT","last":"51057","open":"50000","quoteVol":"1234567.8"},
		{"symbol":"BTCUSDC","last":"1","open":"1","quoteVol":"1"}
	]}`)
	out, err := Adapter{}.FuturesTicker24h(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, market.TickerDaily{P: 2.11, V: 1234567.8}, out["BTCUSDT"])
}

func TestSubscribeFrame(t *testing.T) {
	frames, err := binding{}.SubscribeFrames(stream.Spec{
		Topic:   topicTrades,
		Tickers: []string{"BTCUSDT", "ETHUSDT"},
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.JSONEq(t,
		`{"op":"subscribe","args":[{"symbol":"BTCUSDT","ch":"trade"},{"symbol":"ETHUSDT","ch":"trade"}]}`,
		string(frames[0]))
}

func TestPongHeartbeat(t *testing.T) {
	frame, err := binding{}.Decode(websocket.TextMessage, []byte(`{"op":"pong","pong":1700000000}`))
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)
}

func TestSpotStreamRejected(t *testing.T) {
	_, err := NewManager().AggTradesSocket(market.Spot, []string{"BTCUSDT"}, nil, stream.Options{})
	require.ErrorIs(t, err, market.ErrMarketMismatch)
}
