package kcex

import (
	"fmt"
	"time"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const topicTrades = "sub.deal"

// KCEX drops silent connections fast, so trades sessions ping every 10s
const pingInterval = 10 * time.Second

// Manager builds KCEX streaming sessions. Only the futures trades feed is
// wired.
type Manager struct{}

// NewManager creates a KCEX socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes is empty: no KCEX candle feed is wired
func (m *Manager) Timeframes() market.TimeframeMap {
	return market.TimeframeMap{}
}

// KlinesSocket is not wired for KCEX
func (m *Manager) KlinesSocket(market.MarketType, []string, market.Timeframe, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: kcex klines", market.ErrNotImplemented)
}

// AggTradesSocket streams futures trades for the given contracts
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if mt != market.Futures {
		return nil, fmt.Errorf("%w: kcex streams futures only", market.ErrMarketMismatch)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: kcex trades", market.ErrTickersRequired)
	}
	spec := opts.Apply(stream.Spec{
		Venue:        market.KCEX,
		Market:       mt,
		Topic:        topicTrades,
		Tickers:      tickers,
		PingInterval: pingInterval,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

// TickersSocket is not wired for KCEX
func (m *Manager) TickersSocket(market.MarketType, []string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: kcex tickers", market.ErrNotImplemented)
}

// LiquidationsSocket is not wired for KCEX
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: kcex liquidations", market.ErrNotImplemented)
}
