package gate

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

func TestFuturesTradesMessage(t *testing.T) {
	raw := decode(t, `{
		"channel":"futures.trades",
		"event":"update",
		"result":[
			{"create_time_ms":1700000000123,"contract":"BTC_USDT","size":25,"price":"50000.5"},
			{"create_time_ms":1700000000456,"contract":"BTC_USDT","size":-10,"price":"50001"}
		]
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{
		{Time: 1700000000123, Symbol: "BTCUSDT", Side: market.Buy, Price: 50000.5, Volume: 25},
		{Time: 1700000000456, Symbol: "BTCUSDT", Side: market.Sell, Price: 50001, Volume: 10},
	}, out)
}

func TestSpotTradeMessage(t *testing.T) {
	raw := decode(t, `{
		"channel":"spot.trades",
		"event":"update",
		"result":{"create_time_ms":"1700000000123.456","currency_pair":"ETH_USDT","side":"sell","price":"3000.25","amount":"1.5"}
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{{
		Time: 1700000000123, Symbol: "ETHUSDT", Side: market.Sell, Price: 3000.25, Volume: 1.5,
	}}, out)
}

func TestTicker24hPercentPassthrough(t *testing.T) {
	raw := decode(t, `[
		{"currency_pair":"BTC_USDT","change_percentage":"2.114","quote_volume":"1234567.8"},
		{"currency_pair":"BTC_BTC","change_percentage":"1","quote_volume":"1"}
	]`)
	out, err := Adapter{}.Ticker24h(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, market.TickerDaily{P: 2.11, V: 1234567.8}, out["BTC_USDT"])
}

func TestFuturesTicker24hAndLastPrice(t *testing.T) {
	raw := decode(t, `[
		{"contract":"BTC_USDT","change_percentage":"-1.509","volume_24h_quote":"987654.3","last":"50000.5"},
		{"contract":"BTC_USD","change_percentage":"1","volume_24h_quote":"1","last":"2"}
	]`)
	out, err := Adapter{}.FuturesTicker24h(raw)
	require.NoError(t, err)
	require.Equal(t, market.TickerDaily{P: -1.51, V: 987654.3}, out["BTC_USDT"])

	prices, err := Adapter{}.FuturesLastPrice(raw)
	require.NoError(t, err)
	require.Equal(t, 50000.5, prices["BTC_USDT"])
	require.Equal(t, 2.0, prices["BTC_USD"]) // last price map is not USDT filtered
}

func TestSubscribeFrameAndSymbols(t *testing.T) {
	b := binding{market: market.Futures}
	frames, err := b.SubscribeFrames(stream.Spec{
		Topic:   topicFuturesTrades,
		Tickers: []string{"BTCUSDT", "ETH_USDT"},
	})
	require.NoError(t, err)
	require.Len(t, frames, 1)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(frames[0], &frame))
	require.Equal(t, "futures.trades", frame["channel"])
	require.Equal(t, "subscribe", frame["event"])
	require.Equal(t, []any{"BTC_USDT", "ETH_USDT"}, frame["payload"])
}

func TestDecodePingReply(t *testing.T) {
	frame, err := binding{market: market.Spot}.Decode(websocket.TextMessage, []byte("ping"))
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)

	var reply map[string]any
	require.NoError(t, json.Unmarshal(frame.Reply, &reply))
	require.Equal(t, "spot.pong", reply["channel"])
}

func TestNotWiredOperations(t *testing.T) {
	_, err := Adapter{}.FundingRate(nil)
	require.ErrorIs(t, err, market.ErrNotImplemented)
	_, err = Adapter{}.KlineMessage(nil)
	require.ErrorIs(t, err, market.ErrNotImplemented)
	_, err = NewManager().KlinesSocket(market.Spot, nil, market.TF1m, nil, stream.Options{})
	require.ErrorIs(t, err, market.ErrNotImplemented)
}
