package okx

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	topicKlinePrefix  = "candle"
	topicAggTrades    = "trades-all"
	topicTickers      = "tickers"
	topicLiquidations = "liquidation-orders"
)

var timeframes = market.TimeframeMap{
	market.TF1m:  "1m",
	market.TF3m:  "3m",
	market.TF5m:  "5m",
	market.TF15m: "15m",
	market.TF30m: "30m",
	market.TF1h:  "1H",
	market.TF2h:  "2H",
	market.TF4h:  "4H",
	market.TF6h:  "6H",
	market.TF12h: "12H",
	market.TF1d:  "1D",
	market.TF3d:  "3D",
	market.TF1w:  "1W",
	market.TF1M:  "1M",
}

// Manager builds OKX streaming sessions
type Manager struct{}

// NewManager creates an OKX socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes returns the OKX candle interval table
func (m *Manager) Timeframes() market.TimeframeMap {
	return timeframes
}

// KlinesSocket streams candles for the given instruments
func (m *Manager) KlinesSocket(mt market.MarketType, tickers []string, tf market.Timeframe, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	token, err := timeframes.Format(tf)
	if err != nil {
		return nil, err
	}
	return newSession(mt, topicKlinePrefix+token, tickers, token, cb, opts)
}

// AggTradesSocket streams all trades for the given instruments
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicAggTrades, tickers, "", cb, opts)
}

// TickersSocket streams ticker updates for the given instruments
func (m *Manager) TickersSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	return newSession(mt, topicTickers, tickers, "", cb, opts)
}

// LiquidationsSocket streams all swap liquidation orders
func (m *Manager) LiquidationsSocket(_ []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	spec := opts.Apply(stream.Spec{
		Venue:  market.OKX,
		Market: market.Futures,
		Topic:  topicLiquidations,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

func newSession(mt market.MarketType, topic string, tickers []string, interval string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: okx %s", market.ErrTickersRequired, topic)
	}
	spec := opts.Apply(stream.Spec{
		Venue:    market.OKX,
		Market:   mt,
		Topic:    topic,
		Tickers:  tickers,
		Interval: interval,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}
