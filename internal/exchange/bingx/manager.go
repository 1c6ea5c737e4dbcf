package bingx

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const topicTrades = "trade"

// Manager builds BingX streaming sessions. Only the trades feed is wired.
type Manager struct{}

// NewManager creates a BingX socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes maps every supported timeframe onto itself; BingX uses the
// plain interval tokens
func (m *Manager) Timeframes() market.TimeframeMap {
	table := make(market.TimeframeMap, len(market.Timeframes()))
	for _, tf := range market.Timeframes() {
		table[tf] = string(tf)
	}
	return table
}

// KlinesSocket is not wired for BingX
func (m *Manager) KlinesSocket(market.MarketType, []string, market.Timeframe, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: bingx klines stream", market.ErrNotImplemented)
}

// AggTradesSocket streams trades for the given symbols
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: bingx trades", market.ErrTickersRequired)
	}
	spec := opts.Apply(stream.Spec{
		Venue:   market.BingX,
		Market:  mt,
		Topic:   topicTrades,
		Tickers: tickers,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

// TickersSocket is not wired for BingX
func (m *Manager) TickersSocket(market.MarketType, []string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: bingx tickers", market.ErrNotImplemented)
}

// LiquidationsSocket is not wired for BingX
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: bingx liquidations", market.ErrNotImplemented)
}
