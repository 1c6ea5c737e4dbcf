package binance

import (
	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	topicKlinePrefix  = "@kline_"
	topicAggTrades    = "@aggTrade"
	topicTickers      = "!ticker@arr"
	topicLiquidations = "!forceOrder@arr"
)

var timeframes = market.TimeframeMap{
	market.TF1m:  "1m",
	market.TF3m:  "3m",
	market.TF5m:  "5m",
	market.TF15m: "15m",
	market.TF30m: "30m",
	market.TF1h:  "1h",
	market.TF2h:  "2h",
	market.TF4h:  "4h",
	market.TF6h:  "6h",
	market.TF8h:  "8h",
	market.TF12h: "12h",
	market.TF1d:  "1d",
	market.TF3d:  "3d",
	market.TF1w:  "1w",
	market.TF1M:  "1M",
}

// Manager builds Binance streaming sessions
type Manager struct{}

// NewManager creates a Binance socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes returns the Binance candle interval table
func (m *Manager) Timeframes() market.TimeframeMap {
	return timeframes
}

// KlinesSocket streams candles for the given symbols
func (m *Manager) KlinesSocket(mt market.MarketType, tickers []string, tf market.Timeframe, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	token, err := timeframes.Format(tf)
	if err != nil {
		return nil, err
	}
	return newSession(mt, topicKlinePrefix+token, tickers, token, cb, opts), nil
}

// AggTradesSocket streams aggregated trades for the given symbols
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicAggTrades, tickers, "", cb, opts), nil
}

// TickersSocket streams the all-market 24h ticker feed
func (m *Manager) TickersSocket(mt market.MarketType, _ []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicTickers, nil, "", cb, opts), nil
}

// LiquidationsSocket streams the all-market forced-order feed
func (m *Manager) LiquidationsSocket(_ []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(market.Futures, topicLiquidations, nil, "", cb, opts), nil
}

func newSession(mt market.MarketType, topic string, tickers []string, interval string, cb stream.Callback, opts stream.Options) *stream.Session {
	spec := opts.Apply(stream.Spec{
		Venue:    market.Binance,
		Market:   mt,
		Topic:    topic,
		Tickers:  tickers,
		Interval: interval,
	})
	return stream.NewSession(spec, binding{}, cb)
}
