package fixer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/exchange/okx"
	"cryptomd/internal/httpx"
	"cryptomd/internal/market"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func seeded(venue market.Venue, sizes map[string]float64) *Fixer {
	f := New(httpx.Options{})
	f.tables[venue].set(sizes)
	return f
}

func TestOKXTradeScaledToBaseUnits(t *testing.T) {
	f := seeded(market.OKX, map[string]float64{"BTC-USDT-SWAP": 0.01})

	raw := decode(t, `{
		"arg":{"channel":"trades-all","instId":"BTC-USDT-SWAP"},
		"data":[{"instId":"BTC-USDT-SWAP","tradeId":"1","px":"50000.5","sz":"25","side":"buy","ts":"1700000000123"}]
	}`)
	f.AggTradeFix(market.OKX, raw)

	out, err := okx.Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, []market.AggTrade{{
		Time: 1700000000123, Symbol: "BTC-USDT-SWAP", Side: market.Buy, Price: 50000.5, Volume: 0.25,
	}}, out)
}

func TestUnknownSymbolPassesThrough(t *testing.T) {
	f := seeded(market.OKX, map[string]float64{"ETH-USDT-SWAP": 0.1})

	raw := decode(t, `{
		"arg":{"channel":"trades-all","instId":"BTC-USDT-SWAP"},
		"data":[{"instId":"BTC-USDT-SWAP","px":"1","sz":"25","side":"buy","ts":"1"}]
	}`)
	f.AggTradeFix(market.OKX, raw)

	out, err := okx.Adapter{}.AggTradesMessage(raw)
	require.NoError(t, err)
	require.Equal(t, 25.0, out[0].Volume)
}

func TestMEXCDealAndHoldVol(t *testing.T) {
	f := seeded(market.MEXC, map[string]float64{"BTC_USDT": 0.0001})

	deal := decode(t, `{"channel":"push.deal","symbol":"BTC_USDT","data":{"p":50000,"v":120,"T":1,"t":1700000000123}}`)
	f.AggTradeFix(market.MEXC, deal)
	data := deal.(map[string]any)["data"].(map[string]any)
	require.InDelta(t, 0.012, data["v"], 1e-9)

	oi := decode(t, `{"data":[{"symbol":"BTC_USDT","holdVol":123456,"timestamp":1700000000000}]}`)
	f.OpenInterestFix(market.MEXC, oi)
	entry := oi.(map[string]any)["data"].([]any)[0].(map[string]any)
	require.InDelta(t, 12.3456, entry["holdVol"], 1e-9)
}

func TestKCEXPongSkipped(t *testing.T) {
	f := seeded(market.KCEX, map[string]float64{"BTC_USDT": 0.0001})

	pong := decode(t, `{"channel":"pong","data":1700000000}`)
	f.AggTradeFix(market.KCEX, pong) // must not panic on the scalar data

	deal := decode(t, `{"channel":"push.deal","symbol":"BTC_USDT","data":[{"p":50000,"v":120,"t":1700000000123}]}`)
	f.AggTradeFix(market.KCEX, deal)
	item := deal.(map[string]any)["data"].([]any)[0].(map[string]any)
	require.InDelta(t, 0.012, item["v"], 1e-9)
}

func TestXTTradeScaled(t *testing.T) {
	f := seeded(market.XT, map[string]float64{"btc_usdt": 0.001})

	raw := decode(t, `{"topic":"trade","data":{"s":"btc_usdt","p":"50000","a":"25","t":1700000000123,"m":"BID"}}`)
	f.AggTradeFix(market.XT, raw)
	data := raw.(map[string]any)["data"].(map[string]any)
	require.InDelta(t, 0.025, data["a"], 1e-9)
}

func TestOKXTickerVolumeRewrite(t *testing.T) {
	f := New(httpx.Options{})

	raw := decode(t, `{"data":[{"instId":"BTC-USDT-SWAP","last":"50000","volCcy24h":"1000","vol24h":"100000"}]}`)
	f.TickerDailyFix(market.OKX, raw)
	entry := raw.(map[string]any)["data"].([]any)[0].(map[string]any)
	require.InDelta(t, 5e7, entry["vol24h"], 1e-6)
}

func TestWaitReady(t *testing.T) {
	f := New(httpx.Options{})

	// venues without a table are always ready
	require.NoError(t, f.WaitReady(context.Background(), market.Binance, time.Millisecond))

	err := f.WaitReady(context.Background(), market.OKX, 10*time.Millisecond)
	require.ErrorIs(t, err, market.ErrTimeout)

	f.tables[market.OKX].set(map[string]float64{"BTC-USDT-SWAP": 0.01})
	require.NoError(t, f.WaitReady(context.Background(), market.OKX, time.Second))

	size, ok := f.ContractSize(market.OKX, "BTC-USDT-SWAP")
	require.True(t, ok)
	require.Equal(t, 0.01, size)
}
