package bybit

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	topicKlinePrefix  = "kline."
	topicAggTrades    = "publicTrade"
	topicTickers      = "tickers"
	topicLiquidations = "allLiquidation"
)

var timeframes = market.TimeframeMap{
	market.TF1m:  "1",
	market.TF3m:  "3",
	market.TF5m:  "5",
	market.TF15m: "15",
	market.TF30m: "30",
	market.TF1h:  "60",
	market.TF2h:  "120",
	market.TF4h:  "240",
	market.TF6h:  "360",
	market.TF12h: "720",
	market.TF1d:  "D",
	market.TF1w:  "W",
	market.TF1M:  "M",
}

// Manager builds Bybit streaming sessions
type Manager struct{}

// NewManager creates a Bybit socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes returns the Bybit candle interval table
func (m *Manager) Timeframes() market.TimeframeMap {
	return timeframes
}

// KlinesSocket streams candles for the given symbols
func (m *Manager) KlinesSocket(mt market.MarketType, tickers []string, tf market.Timeframe, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	token, err := timeframes.Format(tf)
	if err != nil {
		return nil, err
	}
	return newSession(mt, topicKlinePrefix+token, tickers, token, cb, opts)
}

// AggTradesSocket streams public trades for the given symbols
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicAggTrades, tickers, "", cb, opts)
}

// TickersSocket streams ticker updates for the given symbols
func (m *Manager) TickersSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicTickers, tickers, "", cb, opts)
}

// LiquidationsSocket streams liquidations for the given perpetual symbols
func (m *Manager) LiquidationsSocket(tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(market.Futures, topicLiquidations, tickers, "", cb, opts)
}

func newSession(mt market.MarketType, topic string, tickers []string, interval string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: bybit %s", market.ErrTickersRequired, topic)
	}
	spec := opts.Apply(stream.Spec{
		Venue:    market.Bybit,
		Market:   mt,
		Topic:    topic,
		Tickers:  tickers,
		Interval: interval,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}
