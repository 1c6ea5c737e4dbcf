package binance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

func TestBindingURI(t *testing.T) {
	b := binding{}

	uri, err := b.URI(stream.Spec{Market: market.Spot, Topic: topicTickers})
	require.NoError(t, err)
	require.Equal(t, "wss://stream.binance.com:9443/ws/!ticker@arr", uri)

	uri, err = b.URI(stream.Spec{Market: market.Futures, Topic: "@aggTrade", Tickers: []string{"BTCUSDT"}})
	require.NoError(t, err)
	require.Equal(t, "wss://fstream.binance.com/ws/btcusdt@aggTrade", uri)

	uri, err = b.URI(stream.Spec{Market: market.Spot, Topic: "@kline_1m", Tickers: []string{"BTCUSDT", "ETHUSDT"}})
	require.NoError(t, err)
	require.Equal(t, "wss://stream.binance.com:9443/stream?streams=btcusdt@kline_1m/ethusdt@kline_1m", uri)

	// liquidations always ride the futures endpoint
	uri, err = b.URI(stream.Spec{Market: market.Spot, Topic: topicLiquidations})
	require.NoError(t, err)
	require.Equal(t, "wss://fstream.binance.com/ws/!forceOrder@arr", uri)

	frames, err := b.SubscribeFrames(stream.Spec{})
	require.NoError(t, err)
	require.Empty(t, frames)
	require.Nil(t, b.PingFrame(stream.Spec{}))
}

func TestManagerTimeframes(t *testing.T) {
	m := NewManager()
	for _, tf := range market.Timeframes() {
		require.True(t, m.Timeframes().Supports(tf), "missing %s", tf)
	}

	sess, err := m.KlinesSocket(market.Futures, []string{"BTCUSDT"}, market.TF4h,
		func(ctx context.Context, raw any) {}, stream.Options{})
	require.NoError(t, err)
	require.Equal(t, "@kline_4h", sess.Spec().Topic)
	require.Equal(t, "4h", sess.Spec().Interval)
}
