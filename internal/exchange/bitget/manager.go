package bitget

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	topicKlinePrefix = "candle"
	topicAggTrades   = "trade"
	topicTickers     = "ticker"
)

var timeframes = market.TimeframeMap{
	market.TF1m:  "1m",
	market.TF5m:  "5m",
	market.TF15m: "15m",
	market.TF30m: "30m",
	market.TF1h:  "1h",
	market.TF4h:  "4h",
	market.TF6h:  "6h",
	market.TF12h: "12h",
	market.TF1d:  "1d",
	market.TF3d:  "3d",
	market.TF1w:  "1w",
	market.TF1M:  "1M",
}

// Manager builds Bitget streaming sessions
type Manager struct{}

// NewManager creates a Bitget socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes returns the Bitget candle interval table
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

// AggTradesSocket streams trades for the given symbols
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicAggTrades, tickers, "", cb, opts)
}

// TickersSocket streams ticker updates for the given symbols
func (m *Manager) TickersSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicTickers, tickers, "", cb, opts)
}

// LiquidationsSocket has no public Bitget feed
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: bitget liquidations", market.ErrNotImplemented)
}

func newSession(mt market.MarketType, topic string, tickers []string, interval string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: bitget %s", market.ErrTickersRequired, topic)
	}
	spec := opts.Apply(stream.Spec{
		Venue:    market.Bitget,
		Market:   mt,
		Topic:    topic,
		Tickers:  tickers,
		Interval: interval,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}
