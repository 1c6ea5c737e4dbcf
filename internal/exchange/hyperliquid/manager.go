package hyperliquid

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	topicTrades = "trades"
	topicCandle = "candle"
)

// Manager builds Hyperliquid streaming sessions
type Manager struct{}

// NewManager creates a Hyperliquid socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes maps supported timeframes onto native tokens; the venue has no
// 6h interval
func (m *Manager) Timeframes() market.TimeframeMap {
	table := make(market.TimeframeMap, len(market.Timeframes()))
	for _, tf := range market.Timeframes() {
		if tf == market.TF6h {
			continue
		}
		table[tf] = string(tf)
	}
	return table
}

// KlinesSocket streams candles for the given coins
func (m *Manager) KlinesSocket(mt market.MarketType, tickers []string, tf market.Timeframe, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	interval, err := m.Timeframes().Format(tf)
	if err != nil {
		return nil, err
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: hyperliquid candles", market.ErrTickersRequired)
	}
	spec := opts.Apply(stream.Spec{
		Venue:    market.Hyperliquid,
		Market:   mt,
		Topic:    topicCandle,
		Tickers:  tickers,
		Interval: interval,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

// AggTradesSocket streams trades for the given coins
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: hyperliquid trades", market.ErrTickersRequired)
	}
	spec := opts.Apply(stream.Spec{
		Venue:   market.Hyperliquid,
		Market:  mt,
		Topic:   topicTrades,
		Tickers: tickers,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

// TickersSocket is not wired for Hyperliquid
func (m *Manager) TickersSocket(market.MarketType, []string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: hyperliquid tickers", market.ErrNotImplemented)
}

// LiquidationsSocket is not wired for Hyperliquid
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: hyperliquid liquidations", market.ErrNotImplemented)
}
