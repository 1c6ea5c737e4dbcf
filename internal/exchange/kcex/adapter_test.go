package kcex

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

func TestDealMessage(t *testing.T) {
	raw := decode(t, `{
		"channel":"push.deal",
		"symbol":"BTC_USDT",
		"data":[
			{"p":50000.5,"v":120,"T":1,"O":1,"M":0,"t":1700000000123},
			{"p":50001,"v":80,"T":2,"O":1,"M":1,"t":1700000000}
		]
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{
		{Time: 1700000000123, Symbol: "BTC_USDT", Side: market.Buy, Price: 50000.5, Volume: 120},
		{Time: 1700000000000, Symbol: "BTC_USDT", Side: market.Sell, Price: 50001, Volume: 80},
	}, out)
}

func TestContractTickerPayload(t *testing.T) {
	raw := decode(t, `{"data":[
		{"symbol":"BTC_USDT","riseFallRate":0.0211,"amount24":98765432.1,"fundingRate":0.0001,"holdVol":123456,"lastPrice":50000,"timestamp":1700000000000},
		{"symbol":"BTC_USD","riseFallRate":0.01,"amount24":1,"fundingRate":0,"holdVol":1,"lastPrice":1,"timestamp":1700000000000}
	]}`)

	tickers, err := Adapter{}.FuturesTicker24h(raw)
	require.NoError(t, err)
	require.Len(t, tickers, 1)
	require.Equal(t, market.TickerDaily{P: 2.11, V: 98765432.1}, tickers["BTC_USDT"])

	funding, err := Adapter{}.FundingRate(raw)
	require.NoError(t, err)
	require.InDelta(t, 0.01, funding["BTC_USDT"], 1e-9)

	oi, err := Adapter{}.OpenInterest(raw)
	require.NoError(t, err)
	require.Equal(t, market.OpenInterest{T: 1700000000000, V: 123456}, oi["BTC_USDT"])

	prices, err := Adapter{}.FuturesLastPrice(raw)
	require.NoError(t, err)
	require.Equal(t, 50000.0, prices["BTC_USDT"])
}

func TestSubscribeFramePerContract(t *testing.T) {
	frames, err := binding{}.SubscribeFrames(stream.Spec{
		Topic:   topicTrades,
		Tickers: []string{"BTC_USDT", "ETH_USDT"},
	})
	require.NoError(t, err)
	require.Len(t, frames, 2)
	require.JSONEq(t, `{"method":"sub.deal","param":{"symbol":"BTC_USDT","compress":true}}`, string(frames[0]))
	require.JSONEq(t, `{"method":"sub.deal","param":{"symbol":"ETH_USDT","compress":true}}`, string(frames[1]))
}

func TestPongHeartbeat(t *testing.T) {
	frame, err := binding{}.Decode(websocket.TextMessage, []byte(`{"channel":"pong","data":1700000000}`))
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)
}

func TestSpotStreamRejected(t *testing.T) {
	_, err := NewManager().AggTradesSocket(market.Spot, []string{"BTC_USDT"}, nil, stream.Options{})
	require.ErrorIs(t, err, market.ErrMarketMismatch)
}
