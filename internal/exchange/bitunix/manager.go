package bitunix

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const topicTrades = "trade"

// Manager builds Bitunix streaming sessions. Only the futures trades feed is
// wired.
type Manager struct{}

// NewManager creates a Bitunix socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes is empty: no Bitunix candle feed is wired
func (m *Manager) Timeframes() market.TimeframeMap {
	return market.TimeframeMap{}
}

// KlinesSocket is not wired for Bitunix
func (m *Manager) KlinesSocket(market.MarketType, []string, market.Timeframe, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: bitunix klines", market.ErrNotImplemented)
}

// AggTradesSocket streams futures trades for the given contracts
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if mt != market.Futures {
		return nil, fmt.Errorf("%w: bitunix streams futures only", market.ErrMarketMismatch)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: bitunix trades", market.ErrTickersRequired)
	}
	spec := opts.Apply(stream.Spec{
		Venue:   market.Bitunix,
		Market:  mt,
		Topic:   topicTrades,
		Tickers: tickers,
	})
	return stream.NewSession(spec, binding{}, cb), nil
}

// TickersSocket is not wired for Bitunix
func (m *Manager) TickersSocket(market.MarketType, []string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: bitunix tickers", market.ErrNotImplemented)
}

// LiquidationsSocket is not wired for Bitunix
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: bitunix liquidations", market.ErrNotImplemented)
}
