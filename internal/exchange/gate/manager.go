package gate

import (
	"fmt"

	"cryptomd/internal/market"
	"cryptomd/internal/stream"
)

const (
	topicSpotTrades    = "spot.trades"
	topicFuturesTrades = "futures.trades"
)

// Manager builds Gate streaming sessions. Only the trades feed is wired.
type Manager struct{}

// NewManager creates a Gate socket manager
func NewManager() *Manager {
	return &Manager{}
}

// Timeframes is empty: no Gate candle feed is wired
func (m *Manager) Timeframes() market.TimeframeMap {
	return market.TimeframeMap{}
}

// KlinesSocket is not wired for Gate
func (m *Manager) KlinesSocket(market.MarketType, []string, market.Timeframe, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: gate klines", market.ErrNotImplemented)
}

// AggTradesSocket streams trades for the given pairs
func (m *Manager) AggTradesSocket(mt market.MarketType, tickers []string, cb stream.Callback, opts stream.Options) (*stream.Session, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: gate trades", market.ErrTickersRequired)
	}
	topic := topicSpotTrades
	if mt == market.Futures {
		topic = topicFuturesTrades
	}
	spec := opts.Apply(stream.Spec{
		Venue:   market.Gate,
		Market:  mt,
		Topic:   topic,
		Tickers: tickers,
	})
	return stream.NewSession(spec, binding{market: mt}, cb), nil
}

// TickersSocket is not wired for Gate
func (m *Manager) TickersSocket(market.MarketType, []string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: gate tickers", market.ErrNotImplemented)
}

// LiquidationsSocket is not wired for Gate
func (m *Manager) LiquidationsSocket([]string, stream.Callback, stream.Options) (*stream.Session, error) {
	return nil, fmt.Errorf("%w: gate liquidations", market.ErrNotImplemented)
}
