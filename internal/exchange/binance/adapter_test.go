package binance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestTicker24h(t *testing.T) {
	raw := decode(t, `[
		{"symbol":"BTCUSDT","priceChangePercent":"2.345","quoteVolume":"123456789.5"},
		{"symbol":"ETHBTC","priceChangePercent":"-1.2","quoteVolume":"999"},
		{"symbol":"ETHUSDT","priceChangePercent":"-0.504","quoteVolume":"7000000.25"}
	]`)

	out, err := Adapter{}.Ticker24h(raw)
	require.NoError(t, err)
	require.Len(t, out, 2) // non-USDT pair dropped
	require.Equal(t, market.TickerDaily{P: 2.35, V: 123456789.5}, out["BTCUSDT"])
	require.Equal(t, market.TickerDaily{P: -0.5, V: 7000000.25}, out["ETHUSDT"])
}

func TestTicker24hMalformed(t *testing.T) {
	raw := decode(t, `[{"symbol":"BTCUSDT","priceChangePercent":"abc","quoteVolume":"1"}]`)
	_, err := Adapter{}.Ticker24h(raw)
	var adaptErr *market.AdaptError
	require.ErrorAs(t, err, &adaptErr)
	require.Equal(t, market.Binance, adaptErr.Venue)
}

func TestFundingRate(t *testing.T) {
	raw := decode(t, `[
		{"symbol":"BTCUSDT","lastFundingRate":"0.0001"},
		{"symbol":"BTCUSD_PERP","lastFundingRate":"0.0003"}
	]`)
	out, err := Adapter{}.FundingRate(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.InDelta(t, 0.01, out["BTCUSDT"], 1e-9)
}

func TestKlineMessageCombinedStream(t *testing.T) {
	raw := decode(t, `{
		"stream":"btcusdt@kline_1m",
		"data":{
			"e":"kline","s":"BTCUSDT",
			"k":{"t":1700000000000,"T":1700000059999,"s":"BTCUSDT","i":"1m",
				"o":"50000","c":"50100","h":"50200","l":"49900","q":"1234567.8","x":true}
		}
	}`)
	out, err := Adapter{}.KlineMessage(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	k := out[0]
	require.Equal(t, "BTCUSDT", k.Symbol)
	require.Equal(t, int64(1700000000000), k.OpenTime)
	require.Equal(t, 50000.0, k.Open)
	require.Equal(t, 1234567.8, k.Volume)
	require.NotNil(t, k.Closed)
	require.True(t, *k.Closed)
}

func TestAggTradesMessage(t *testing.T) {
	raw := decode(t, `{"e":"aggTrade","s":"BTCUSDT","p":"50000.5","q":"0.25","T":1700000000123,"m":true}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{{
		Time: 1700000000123, Symbol: "BTCUSDT", Side: market.Sell, Price: 50000.5, Volume: 0.25,
	}}, out)
}

func TestLiquidationsMessage(t *testing.T) {
	raw := decode(t, `{"e":"forceOrder","o":{"s":"ETHUSDT","S":"SELL","q":"10.5","p":"3000.1","T":1700000000555}}`)
	out, err := Adapter{}.LiquidationsMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.Liquidation{{
		Time: 1700000000555, Symbol: "ETHUSDT", Side: market.Sell, Volume: 10.5, Price: 3000.1,
	}}, out)
}

func TestOpenInterest(t *testing.T) {
	raw := decode(t, `{"symbol":"BTCUSDT","openInterest":"85000.25","time":1700000000000}`)
	out, err := Adapter{}.OpenInterest(raw)
	require.NoError(t, err)
	require.Equal(t, market.OpenInterest{T: 1700000000000, V: 85000.25}, out["BTCUSDT"])
}

func TestKlineRest(t *testing.T) {
	raw := decode(t, `[
		[1700000000000,"50000","50200","49900","50100","12.5",1700000059999,"625000.7",100,"6","300","0"]
	]`)
	out, err := Adapter{}.Kline(raw, market.Futures, "BTCUSDT", "1m")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "BTCUSDT", out[0].Symbol)
	require.Equal(t, 625000.7, out[0].Volume) // quote volume, not base
	require.Equal(t, int64(1700000059999), out[0].CloseTime)
}
