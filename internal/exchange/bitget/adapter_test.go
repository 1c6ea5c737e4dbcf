package bitget

import (
	"context"
	"encoding/json"
	"testing"

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

func TestTicker24h(t *testing.T) {
	raw := decode(t, `{"data":[
		{"symbol":"BTCUSDT","change24h":"0.0156","usdtVolume":"123456.78"},
		{"symbol":"BTCEUR","change24h":"0.01","usdtVolume":"1"}
	]}`)
	out, err := Adapter{}.Ticker24h(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, market.TickerDaily{P: 1.56, V: 123456.78}, out["BTCUSDT"])
}

func TestAggTradesMessage(t *testing.T) {
	raw := decode(t, `{
		"arg":{"instType":"USDT-FUTURES","channel":"trade","instId":"BTCUSDT"},
		"data":[{"ts":"1700000000123","price":"50000","size":"0.75","side":"buy"}]
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{{
		Time: 1700000000123, Symbol: "BTCUSDT", Side: market.Buy, Price: 50000, Volume: 0.75,
	}}, out)
}

func TestOpenInterest(t *testing.T) {
	raw := decode(t, `{"data":{
		"openInterestList":[{"symbol":"BTCUSDT","size":"8123.4"}],
		"ts":"1700000000000"
	}}`)
	out, err := Adapter{}.OpenInterest(raw)
	require.NoError(t, err)
	require.Equal(t, market.OpenInterest{T: 1700000000000, V: 8123.4}, out["BTCUSDT"])
}

func TestSubscribeFrame(t *testing.T) {
	b := binding{}
	frames, err := b.SubscribeFrames(stream.Spec{
		Market:  market.Futures,
		Topic:   "candle1h",
		Tickers: []string{"btcusdt"},
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.JSONEq(t,
		`{"op":"subscribe","args":[{"instType":"USDT-FUTURES","channel":"candle1h","instId":"BTCUSDT"}]}`,
		string(frames[0]))
	require.Equal(t, []byte("ping"), b.PingFrame(stream.Spec{}))
}

func TestLiquidationsNotImplemented(t *testing.T) {
	_, err := NewManager().LiquidationsSocket(nil, func(ctx context.Context, raw any) {}, stream.Options{})
	require.ErrorIs(t, err, market.ErrNotImplemented)

	_, err = Adapter{}.LiquidationsMessage(nil)
	require.ErrorIs(t, err, market.ErrNotImplemented)
}

func TestPongHeartbeat(t *testing.T) {
	frame, err := binding{}.Decode(1, []byte("pong"))
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)
	require.Nil(t, frame.Value)
}
