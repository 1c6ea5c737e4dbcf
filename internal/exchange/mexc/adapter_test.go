package mexc

import (
	"encoding/json"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestFuturesSubscribeFrames(t *testing.T) {
	b := binding{}
	frames, err := b.SubscribeFrames(stream.Spec{
		Market:  market.Futures,
		Topic:   topicFuturesAggTrades,
		Tickers: []string{"BTCUSDT", "ETH_USDT"},
	})
	require.NoError(t, err)
	require.Len(t, frames, 2) // one frame per symbol
	require.JSONEq(t, `{"method":"sub.deal","param":{"symbol":"BTC_USDT"}}`, string(frames[0]))
	require.JSONEq(t, `{"method":"sub.deal","param":{"symbol":"ETH_USDT"}}`, string(frames[1]))
}

func TestSpotSubscribeFrame(t *testing.T) {
	b := binding{}
	frames, err := b.SubscribeFrames(stream.Spec{
		Market:   market.Spot,
		Topic:    topicSpotKlines,
		Tickers:  []string{"btcusdt"},
		Interval: "Min15",
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	require.JSONEq(t,
		`{"method":"SUBSCRIPTION","params":["spot@public.kline.v3.api@BTCUSDT@Min15"]}`,
		string(frames[0]))
}

func TestFuturesDealMessage(t *testing.T) {
	raw := decode(t, `{
		"channel":"push.deal",
		"symbol":"BTC_USDT",
		"data":{"p":50000.5,"v":120,"T":2,"t":1700000000123}
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{{
		Time: 1700000000123, Symbol: "BTC_USDT", Side: market.Sell, Price: 50000.5, Volume: 120,
	}}, out)
}

// buildSpotDealsFrame assembles a binary spot frame the way the venue does
func buildSpotDealsFrame(t *testing.T) []byte {
	t.Helper()

	item := protowire.AppendTag(nil, dealPrice, protowire.BytesType)
	item = protowire.AppendString(item, "50000.5")
	item = protowire.AppendTag(item, dealQuantity, protowire.BytesType)
	item = protowire.AppendString(item, "0.25")
	item = protowire.AppendTag(item, dealTradeType, protowire.VarintType)
	item = protowire.AppendVarint(item, 1)
	item = protowire.AppendTag(item, dealTime, protowire.VarintType)
	item = protowire.AppendVarint(item, 1700000000123)

	deals := protowire.AppendTag(nil, dealsItems, protowire.BytesType)
	deals = protowire.AppendBytes(deals, item)

	frame := protowire.AppendTag(nil, envChannel, protowire.BytesType)
	frame = protowire.AppendString(frame, "spot@public.deals.v3.api@BTCUSDT")
	frame = protowire.AppendTag(frame, envSymbol, protowire.BytesType)
	frame = protowire.AppendString(frame, "BTCUSDT")
	frame = protowire.AppendTag(frame, envPublicDeals, protowire.BytesType)
	frame = protowire.AppendBytes(frame, deals)
	return frame
}

func TestSpotProtobufDeals(t *testing.T) {
	frame, err := binding{}.Decode(websocket.BinaryMessage, buildSpotDealsFrame(t))
	require.NoError(t, err)
	require.False(t, frame.Heartbeat)

	out, err := Adapter{}.AggTradesMessage(frame.Value)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{{
		Time: 1700000000123, Symbol: "BTCUSDT", Side: market.Buy, Price: 50000.5, Volume: 0.25,
	}}, out)
}

func TestFuturesTicker24h(t *testing.T) {
	raw := decode(t, `{"data":[
		{"symbol":"BTC_USDT","riseFallRate":0.0211,"amount24":98765432.1,"fundingRate":0.0001,"holdVol":123456,"lastPrice":50000,"timestamp":1700000000000},
		{"symbol":"BTC_USD","riseFallRate":0.01,"amount24":1}
	]}`)

	out, err := Adapter{}.FuturesTicker24h(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, market.TickerDaily{P: 2.11, V: 98765432.1}, out["BTC_USDT"])

	funding, err := Adapter{}.FundingRate(raw)
	require.NoError(t, err)
	require.InDelta(t, 0.01, funding["BTC_USDT"], 1e-9)

	oi, err := Adapter{}.OpenInterest(raw)
	require.NoError(t, err)
	require.Equal(t, market.OpenInterest{T: 1700000000000, V: 123456}, oi["BTC_USDT"])
}

func TestFuturesKlineColumnar(t *testing.T) {
	raw := decode(t, `{"data":{
		"time":[1700000000,1700000060],
		"open":[50000,50100],
		"high":[50200,50300],
		"low":[49900,50050],
		"close":[50100,50200],
		"vol":[100,200],
		"amount":[501000.5,1004000.2]
	}}`)
	out, err := Adapter{}.Kline(raw, market.Futures, "BTC_USDT", "Min1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, int64(1700000000000), out[0].OpenTime) // seconds upscaled
	require.Equal(t, 501000.5, out[0].Volume)
}
