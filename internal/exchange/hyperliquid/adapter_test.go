package hyperliquid

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

const metaPayload = `[
	{"universe":[{"name":"BTC"},{"name":"ETH"}]},
	[
		{"funding":"0.0000125","openInterest":"12345.6","markPx":"50000","dayNtlVlm":"98765432.1","prevDayPx":"48967"},
		{"funding":"-0.0000250","openInterest":"54321.0","markPx":"3000","dayNtlVlm":"12345678.9","prevDayPx":"3046"}
	]
]`

func TestAssetContextZip(t *testing.T) {
	raw := decode(t, metaPayload)

	names, err := Adapter{}.FuturesTickers(raw, true)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"BTC", "ETH"}, names)

	tickers, err := Adapter{}.FuturesTicker24h(raw)
	require.NoError(t, err)
	require.Equal(t, market.TickerDaily{P: 2.11, V: 98765432.1}, tickers["BTC"])
	require.Equal(t, market.TickerDaily{P: -1.51, V: 12345678.9}, tickers["ETH"])

	funding, err := Adapter{}.FundingRate(raw)
	require.NoError(t, err)
	require.InDelta(t, 0.00125, funding["BTC"], 1e-9)

	oi, err := Adapter{}.OpenInterest(raw)
	require.NoError(t, err)
	require.Equal(t, 12345.6, oi["BTC"].V)
	require.NotZero(t, oi["BTC"].T)

	prices, err := Adapter{}.FuturesLastPrice(raw)
	require.NoError(t, err)
	require.Equal(t, 50000.0, prices["BTC"])
}

func TestTradesMessage(t *testing.T) {
	raw := decode(t, `{
		"channel":"trades",
		"data":[
			{"coin":"BTC","side":"B","px":"50000.5","sz":"0.25","time":1700000000123},
			{"coin":"BTC","side":"A","px":"50001","sz":"0.1","time":1700000000456}
		]
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{
		{Time: 1700000000123, Symbol: "BTC", Side: market.Buy, Price: 50000.5, Volume: 0.25},
		{Time: 1700000000456, Symbol: "BTC", Side: market.Sell, Price: 50001, Volume: 0.1},
	}, out)
}

func TestCandleQuoteConversion(t *testing.T) {
	raw := decode(t, `{
		"channel":"candle",
		"data":{"t":1700000000000,"T":1700000059999,"s":"BTC","i":"1m","o":"50000","c":"50100","h":"50200","l":"49900","v":"2","n":42}
	}`)
	out, err := Adapter{}.KlineMessage(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "BTC", out[0].Symbol)
	require.Equal(t, 100200.0, out[0].Volume) // base volume times close
	require.Equal(t, int64(1700000059999), out[0].CloseTime)
}

func TestCandleSnapshot(t *testing.T) {
	raw := decode(t, `[
		{"t":1700000000000,"o":"50000","c":"50100","h":"50200","l":"49900","v":"1"}
	]`)
	out, err := Adapter{}.Kline(raw, market.Futures, "BTC", "1m")
	require.NoError(t, err)
	require.Equal(t, "BTC", out[0].Symbol)
	require.Equal(t, "1m", out[0].Interval)
}

func TestSubscribeFrames(t *testing.T) {
	frames, err := binding{}.SubscribeFrames(stream.Spec{
		Topic:    topicCandle,
		Tickers:  []string{"BTC"},
		Interval: "4h",
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.JSONEq(t,
		`{"method":"subscribe","subscription":{"type":"candle","coin":"BTC","interval":"4h"}}`,
		string(frames[0]))
}

func TestPongHeartbeat(t *testing.T) {
	frame, err := binding{}.Decode(websocket.TextMessage, []byte(`{"channel":"pong"}`))
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)

	frame, err = binding{}.Decode(websocket.TextMessage, []byte(`{"channel":"subscriptionResponse","data":{}}`))
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)
}

func TestNo6hInterval(t *testing.T) {
	table := NewManager().Timeframes()
	require.False(t, table.Supports(market.TF6h))
	_, err := NewManager().KlinesSocket(market.Futures, []string{"BTC"}, market.TF6h, nil, stream.Options{})
	require.ErrorIs(t, err, market.ErrTimeframeUnsupported)
}
