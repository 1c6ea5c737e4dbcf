package bingx

import (
	"bytes"
	"compress/gzip"
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

func compress(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestTradesMessageSorted(t *testing.T) {
	raw := decode(t, `{
		"dataType":"BTC-USDT@trade",
		"data":[
			{"T":1700000000456,"s":"BTC-USDT","m":true,"p":"50001","q":"0.1"},
			{"T":1700000000123,"s":"BTC-USDT","m":false,"p":"50000.5","q":"0.25"}
		]
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{
		{Time: 1700000000123, Symbol: "BTC-USDT", Side: market.Buy, Price: 50000.5, Volume: 0.25},
		{Time: 1700000000456, Symbol: "BTC-USDT", Side: market.Sell, Price: 50001, Volume: 0.1},
	}, out)
}

func TestGzipFrameDecode(t *testing.T) {
	payload := []byte(`{"dataType":"BTC-USDT@trade","data":[{"T":1,"s":"BTC-USDT","m":false,"p":"1","q":"1"}]}`)
	frame, err := binding{}.Decode(websocket.BinaryMessage, compress(t, payload))
	require.NoError(t, err)
	require.False(t, frame.Heartbeat)
	require.NotNil(t, frame.Value)

	// plain frames pass through untouched
	frame, err = binding{}.Decode(websocket.TextMessage, payload)
	require.NoError(t, err)
	require.NotNil(t, frame.Value)
}

func TestPingPongReply(t *testing.T) {
	frame, err := binding{}.Decode(websocket.BinaryMessage, compress(t, []byte("Ping")))
	require.NoError(t, err)
	require.True(t, frame.Heartbeat)
	require.Equal(t, []byte("Pong"), frame.Reply)
}

func TestTicker24hPercentSuffix(t *testing.T) {
	raw := decode(t, `{"data":[
		{"symbol":"BTC-USDT","priceChangePercent":"2.114%","quoteVolume":"1234567.8"},
		{"symbol":"ETH-USDT","priceChangePercent":-1.509,"quoteVolume":987654.3},
		{"symbol":"BTC-USDC","priceChangePercent":"1%","quoteVolume":"1"}
	]}`)
	out, err := Adapter{}.Ticker24h(raw)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, market.TickerDaily{P: 2.11, V: 1234567.8}, out["BTC-USDT"])
	require.Equal(t, market.TickerDaily{P: -1.51, V: 987654.3}, out["ETH-USDT"])
}

func TestFundingRateAliases(t *testing.T) {
	raw := decode(t, `{"data":[
		{"symbol":"BTC-USDT","lastFundingRate":"0.0001"},
		{"symbol":"ETH-USDT","fundingRate":"-0.0002"}
	]}`)
	out, err := Adapter{}.FundingRate(raw)
	require.NoError(t, err)
	require.InDelta(t, 0.01, out["BTC-USDT"], 1e-9)
	require.InDelta(t, -0.02, out["ETH-USDT"], 1e-9)
}

func TestOpenInterestNestedData(t *testing.T) {
	raw := decode(t, `{"code":0,"data":{"data":{"symbol":"BTC-USDT","openInterest":"123456.7","time":1700000000000}}}`)
	out, err := Adapter{}.OpenInterest(raw)
	require.NoError(t, err)
	require.Equal(t, market.OpenInterest{T: 1700000000000, V: 123456.7}, out["BTC-USDT"])
}

func TestKlineBothShapes(t *testing.T) {
	objects := decode(t, `{"data":[
		{"time":1700000060000,"open":50100,"high":50300,"low":50050,"close":50200,"volume":200},
		{"time":1700000000000,"open":50000,"high":50200,"low":49900,"close":50100,"volume":100}
	]}`)
	out, err := Adapter{}.Kline(objects, market.Futures, "BTC-USDT", "1m")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, int64(1700000000000), out[0].OpenTime) // sorted ascending
	require.Equal(t, "1m", out[0].Interval)

	arrays := decode(t, `{"data":[
		[1700000000000,"50000","50200","49900","50100","100",1700000059999]
	]}`)
	out, err = Adapter{}.Kline(arrays, market.Spot, "BTC-USDT", "1m")
	require.NoError(t, err)
	require.Equal(t, int64(1700000059999), out[0].CloseTime)
}

func TestSubscribeFramePerSymbol(t *testing.T) {
	frames, err := binding{}.SubscribeFrames(stream.Spec{
		Market:  market.Futures,
		Topic:   topicTrades,
		Tickers: []string{"BTC-USDT", "ETH-USDT"},
	})
	require.NoError(t, err)
	require.Len(t, frames, 2)

	var frame map[string]any
	require.NoError(t, json.Unmarshal(frames[0], &frame))
	require.Equal(t, "sub", frame["reqType"])
	require.Equal(t, "BTC-USDT@trade", frame["dataType"])
}

func TestTimeframesIdentity(t *testing.T) {
	table := NewManager().Timeframes()
	for _, tf := range market.Timeframes() {
		token, err := table.Format(tf)
		require.NoError(t, err)
		require.Equal(t, string(tf), token)
	}
}
