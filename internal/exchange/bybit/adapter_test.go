package bybit

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

func TestKlineMessage(t *testing.T) {
	raw := decode(t, `{
		"topic":"kline.1.BTCUSDT",
		"type":"snapshot",
		"data":[{
			"start":1700000000000,"end":1700000059999,"interval":"1",
			"open":"50000","close":"50100","high":"50200","low":"49900",
			"volume":"12.5","turnover":"625000.7","confirm":false,"timestamp":1700000030000
		}]
	}`)

	out, err := Adapter{}.KlineMessage(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	k := out[0]
	require.Equal(t, "BTCUSDT", k.Symbol) // pulled from the topic suffix
	require.Equal(t, int64(1700000000000), k.OpenTime)
	require.Equal(t, int64(1700000059999), k.CloseTime)
	require.Equal(t, 50000.0, k.Open)
	require.Equal(t, 50100.0, k.Close)
	require.Equal(t, 625000.7, k.Volume) // turnover, quote terms
	require.Equal(t, "1", k.Interval)
	require.NotNil(t, k.Closed)
	require.False(t, *k.Closed)
}

func TestTicker24hPercentScaling(t *testing.T) {
	raw := decode(t, `{"result":{"list":[
		{"symbol":"BTCUSDT","price24hPcnt":"0.0234","turnover24h":"9876543.21"},
		{"symbol":"BTCPERP","price24hPcnt":"0.01","turnover24h":"1"}
	]}}`)

	out, err := Adapter{}.FuturesTicker24h(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, market.TickerDaily{P: 2.34, V: 9876543.21}, out["BTCUSDT"])
}

func TestAggTradesMessage(t *testing.T) {
	raw := decode(t, `{
		"topic":"publicTrade.BTCUSDT",
		"data":[
			{"T":1700000000100,"s":"BTCUSDT","S":"Buy","v":"0.5","p":"50000"},
			{"T":1700000000200,"s":"BTCUSDT","S":"Sell","v":"0.25","p":"49999.5"}
		]
	}`)
	out, err := Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{
		{Time: 1700000000100, Symbol: "BTCUSDT", Side: market.Buy, Price: 50000, Volume: 0.5},
		{Time: 1700000000200, Symbol: "BTCUSDT", Side: market.Sell, Price: 49999.5, Volume: 0.25},
	}, out)
}

func TestKlineRestSortsAscending(t *testing.T) {
	raw := decode(t, `{"result":{"symbol":"BTCUSDT","list":[
		["1700000120000","50100","50300","50050","50200","10","501000"],
		["1700000060000","50000","50150","49900","50100","8","400800"]
	]}}`)
	out, err := Adapter{}.Kline(raw, market.Futures, "BTCUSDT", "1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Less(t, out[0].OpenTime, out[1].OpenTime)
	require.Equal(t, 400800.0, out[0].Volume)
}

func TestManagerRejectsUnsupportedTimeframe(t *testing.T) {
	m := NewManager()
	_, err := m.KlinesSocket(market.Futures, []string{"BTCUSDT"}, market.TF8h,
		func(ctx context.Context, raw any) {}, stream.Options{})
	require.ErrorIs(t, err, market.ErrTimeframeUnsupported)

	_, err = m.TickersSocket(market.Spot, nil, func(ctx context.Context, raw any) {}, stream.Options{})
	require.ErrorIs(t, err, market.ErrTickersRequired)
}

func TestTimeframeRoundTrip(t *testing.T) {
	m := NewManager()
	for tf := range m.Timeframes() {
		token, err := m.Timeframes().Format(tf)
		require.NoError(t, err)
		back, err := m.Timeframes().Parse(token)
		require.NoError(t, err)
		require.Equal(t, tf, back)
	}
	require.False(t, m.Timeframes().Supports(market.TF3d))
}
