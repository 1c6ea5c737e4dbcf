package xt

import (
	"fmt"
	"time"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const topicTrades = "trade"

// XT drops silent connections fast, so trades sessions ping every 10s
const pingInterval = 10 * time.Second

// Manager builds XT streaming sessions. Only the trades feed is wired.
type Manager struct{}

// NewManager creates an XT socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes is empty: no XT candle feed is wired
func (m *Manager) Timeframes() market.TimeframeMap {
	return market.TimeframeMap{}
}

// KlinesSocket is not wired for XT
func (m *Manager) KlinesSocket(market.MarketType, []string, market.Timeframe, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: xt klines", market.ErrNotImplemented)
}

// AggTradesSocket streams trades for the given pairs
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: xt trades", market.ErrTickersRequired)
	}
	spec := opts.Apply(stream.Spec{
		Venue:        market.XT,
		Market:       mt,
		Topic:        topicTrades,
		Tickers:      tickers,
		PingInterval: pingInterval,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

// TickersSocket is not wired for XT
func (m *Manager) TickersSocket(market.MarketType, []string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: xt tickers", market.ErrNotImplemented)
}

// LiquidationsSocket is not wired for XT
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: xt liquidations", market.ErrNotImplemented)
}
